package trainer

import (
	"path/filepath"
	"testing"

	"traind/internal/checkpoint"
	"traind/internal/config"
	"traind/internal/optim"
	"traind/pkg/types"
)

func TestNewRejectsIncompleteWiring(t *testing.T) {
	cfg := testConfig(t.TempDir())
	feeders := map[string]types.Feeder{
		TrainSplit: &sliceFeeder{batches: makeBatches("train", 1, 2, 3)},
		"test":     &sliceFeeder{batches: makeBatches("test", 1, 2, 3)},
	}

	cases := []struct {
		name string
		rc   RunnerConfig
	}{
		{"no model", RunnerConfig{Config: cfg, Optimizer: &optim.SGD{}, Feeders: feeders}},
		{"no optimizer", RunnerConfig{Config: cfg, Model: newStubModel(3), Feeders: feeders}},
		{"no train feeder", RunnerConfig{Config: cfg, Model: newStubModel(3), Optimizer: &optim.SGD{},
			Feeders: map[string]types.Feeder{"test": feeders["test"]}}},
		{"missing eval split", RunnerConfig{Config: cfg, Model: newStubModel(3), Optimizer: &optim.SGD{},
			Feeders: map[string]types.Feeder{TrainSplit: feeders[TrainSplit]}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.rc); err == nil || !config.IsConfig(err) {
				t.Fatalf("expected config error, got %v", err)
			}
		})
	}
}

func TestNewSeedsWeightsFromSnapshot(t *testing.T) {
	d := t.TempDir()
	path := filepath.Join(d, "seed.json")
	if err := checkpoint.Save(path, types.ParamValues{"bias": {1, 2, 3}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	cfg := testConfig(d)
	cfg.Weights = path

	model := newStubModel(3)
	r := mustRunner(t, cfg, model)
	got := model.ExportParameters()["bias"]
	want := []float64{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bias = %v, want %v", got, want)
		}
	}
	if st := r.Status(); st.State != string(StateIdle) {
		t.Fatalf("fresh runner state = %s", st.State)
	}
}

func TestNewSeedsWeightsWithIgnoreList(t *testing.T) {
	d := t.TempDir()
	path := filepath.Join(d, "seed.json")
	err := checkpoint.Save(path, types.ParamValues{
		"bias":  {1, 2, 3},
		"extra": {9},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	cfg := testConfig(d)
	cfg.Weights = path
	cfg.IgnoreWeights = []string{"bias"}

	model := newStubModel(3)
	mustRunner(t, cfg, model)
	// the ignored key must not overwrite the in-memory zeros
	for i, v := range model.ExportParameters()["bias"] {
		if v != 0 {
			t.Fatalf("bias[%d] = %g, ignore list not applied", i, v)
		}
	}
}

func TestNewFailsOnUnreadableWeights(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Weights = filepath.Join(cfg.WorkDir, "absent.json")
	_, err := New(RunnerConfig{
		Config:    cfg,
		Model:     newStubModel(3),
		Optimizer: &optim.SGD{},
		Feeders: map[string]types.Feeder{
			TrainSplit: &sliceFeeder{batches: makeBatches("train", 1, 2, 3)},
			"test":     &sliceFeeder{batches: makeBatches("test", 1, 2, 3)},
		},
	})
	if err == nil || !checkpoint.IsIO(err) {
		t.Fatalf("expected IO error for missing weights, got %v", err)
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	r := newTrainRunner(t, t.TempDir(), newStubModel(3))
	if err := r.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	h := r.History()
	if len(h) != 1 {
		t.Fatalf("history length %d", len(h))
	}
	h[0].Epoch = 99
	if r.History()[0].Epoch == 99 {
		t.Fatalf("History must not expose internal state")
	}
}

func TestStatusReflectsRun(t *testing.T) {
	r := newTrainRunner(t, t.TempDir(), newStubModel(3))
	if !r.Ready() {
		t.Fatalf("idle runner must report ready")
	}
	if err := r.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	st := r.Status()
	if st.State != string(StateDone) || st.Epoch != 0 || st.NumEpoch != 1 {
		t.Fatalf("unexpected status: %+v", st)
	}
	if st.LastLoss <= 0 || st.LastLR != r.cfg.BaseLR {
		t.Fatalf("status missing last loss/lr: %+v", st)
	}
	if len(st.TimeShares) == 0 {
		t.Fatalf("status missing time shares")
	}
}

func TestStatusConcurrentWithTraining(t *testing.T) {
	// the status server polls Status while the run goroutine trains;
	// the timing snapshot must not race with bucket charging
	r := newTrainRunner(t, t.TempDir(), newStubModel(3))
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := r.Start(); err != nil {
			t.Errorf("start: %v", err)
		}
	}()
	for {
		select {
		case <-done:
			if st := r.Status(); st.State != string(StateDone) {
				t.Fatalf("unexpected final state: %+v", st)
			}
			return
		default:
			if st := r.Status(); len(st.TimeShares) == 0 {
				t.Fatalf("status missing time shares")
			}
		}
	}
}

func mustRunner(t *testing.T, cfg config.Config, model types.Model) *Runner {
	t.Helper()
	r, err := New(RunnerConfig{
		Config:    cfg,
		Model:     model,
		Optimizer: &optim.SGD{},
		Feeders: map[string]types.Feeder{
			TrainSplit: &sliceFeeder{batches: makeBatches("train", 1, 2, 3)},
			"test":     &sliceFeeder{batches: makeBatches("test", 1, 2, 3)},
		},
	})
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	return r
}
