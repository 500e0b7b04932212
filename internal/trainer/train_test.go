package trainer

import (
	"errors"
	"math"
	"testing"

	"traind/internal/optim"
	"traind/pkg/types"
)

func newTrainRunner(t *testing.T, workDir string, model types.Model) *Runner {
	t.Helper()
	cfg := testConfig(workDir)
	r, err := New(RunnerConfig{
		Config:    cfg,
		Model:     model,
		Optimizer: &optim.SGD{},
		Feeders: map[string]types.Feeder{
			TrainSplit: &sliceFeeder{batches: makeBatches("train", 4, 2, 3)},
			"test":     &sliceFeeder{batches: makeBatches("test", 2, 2, 3)},
		},
	})
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	return r
}

func TestRunEpochAggregatesMeanLoss(t *testing.T) {
	r := newTrainRunner(t, t.TempDir(), newStubModel(3))
	em, err := r.runEpoch(0, 0.1)
	if err != nil {
		t.Fatalf("run epoch: %v", err)
	}
	if em.Batches != 4 {
		t.Fatalf("expected 4 batches, got %d", em.Batches)
	}
	// fresh zero biases give uniform softmax: first batch loss is ln 3,
	// later batches shrink as the step updates the bias
	if em.MeanLoss <= 0 || em.MeanLoss > math.Log(3)+1e-9 {
		t.Fatalf("implausible mean loss %g", em.MeanLoss)
	}
	if em.LearningRate != 0.1 || em.Epoch != 0 {
		t.Fatalf("metrics not stamped: %+v", em)
	}
	if em.TimeShares == nil {
		t.Fatalf("missing time shares")
	}
}

func TestRunEpochMutatesModel(t *testing.T) {
	model := newStubModel(3)
	r := newTrainRunner(t, t.TempDir(), model)
	if _, err := r.runEpoch(0, 0.5); err != nil {
		t.Fatalf("run epoch: %v", err)
	}
	moved := false
	for _, v := range model.bias.Data {
		if v != 0 {
			moved = true
		}
	}
	if !moved {
		t.Fatalf("optimizer step did not move parameters")
	}
}

func TestRunEpochForwardFailureIsCompute(t *testing.T) {
	model := newStubModel(3)
	model.forwardErr = errors.New("shape mismatch")
	r := newTrainRunner(t, t.TempDir(), model)
	_, err := r.runEpoch(0, 0.1)
	if err == nil || !IsCompute(err) {
		t.Fatalf("expected compute error, got %v", err)
	}
}

func TestRunEpochResetsLoader(t *testing.T) {
	r := newTrainRunner(t, t.TempDir(), newStubModel(3))
	if _, err := r.runEpoch(0, 0.1); err != nil {
		t.Fatalf("epoch 1: %v", err)
	}
	em, err := r.runEpoch(1, 0.1)
	if err != nil {
		t.Fatalf("epoch 2: %v", err)
	}
	if em.Batches != 4 {
		t.Fatalf("second epoch saw %d batches, loader not reset", em.Batches)
	}
}
