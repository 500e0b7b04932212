package schedule

import (
	"math"
	"testing"
)

func TestLearningRateStepDecay(t *testing.T) {
	steps := []int{20, 40, 60}
	cases := []struct {
		epoch int
		want  float64
	}{
		{0, 0.01},
		{19, 0.01},
		{20, 0.001},   // boundary counts when epoch >= step
		{39, 0.001},
		{40, 0.0001},
		{60, 0.00001},
		{79, 0.00001},
	}
	for _, tc := range cases {
		got := LearningRate(0.01, tc.epoch, steps)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("epoch %d: got %g want %g", tc.epoch, got, tc.want)
		}
	}
}

func TestLearningRateNoSteps(t *testing.T) {
	if got := LearningRate(0.05, 100, nil); got != 0.05 {
		t.Fatalf("no steps must keep base lr, got %g", got)
	}
}

func TestLearningRateMonotonicNonIncreasing(t *testing.T) {
	steps := []int{3, 3, 7}
	prev := math.Inf(1)
	for e := 0; e < 12; e++ {
		lr := LearningRate(0.1, e, steps)
		if lr > prev {
			t.Fatalf("lr increased at epoch %d: %g > %g", e, lr, prev)
		}
		prev = lr
	}
	// repeated boundary decays twice at once
	if got, want := LearningRate(0.1, 3, steps), 0.1*0.01; math.Abs(got-want) > 1e-12 {
		t.Fatalf("repeated boundary: got %g want %g", got, want)
	}
}
