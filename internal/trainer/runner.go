package trainer

import (
	"sync"
	"time"

	"traind/internal/checkpoint"
	"traind/internal/config"
	"traind/internal/optim"
	"traind/internal/runlog"
	"traind/internal/timing"
	"traind/pkg/types"
)

// Runner is the epoch-level orchestrator. It exclusively owns the
// model and optimizer for the run's lifetime and lends them to the
// train/eval engines one call at a time.
type Runner struct {
	cfg       config.Config
	runID     string
	model     types.Model
	optimizer optim.Optimizer
	feeders   map[string]types.Feeder
	log       *runlog.Logger
	timer     *timing.Accumulator

	logInterval int
	startTime   time.Time

	mu          sync.RWMutex
	state       State
	epoch       int
	lastLoss    float64
	lastLR      float64
	checkpoints uint64
	evals       uint64
	lastErr     string
	history     []types.EpochMetrics
}

// New constructs a Runner and, when a weights path is configured,
// seeds the model from that snapshot through reconciliation. A failed
// load of explicitly requested weights is fatal; reconciliation
// mismatches are logged warnings.
func New(rc RunnerConfig) (*Runner, error) {
	if rc.Model == nil {
		return nil, config.Errorf("runner requires a model")
	}
	if rc.Optimizer == nil {
		return nil, config.Errorf("runner requires an optimizer")
	}
	if rc.Log == nil {
		rc.Log = runlog.NewDiscard()
	}
	if rc.Config.Phase == string(types.PhaseTrain) {
		if _, ok := rc.Feeders[TrainSplit]; !ok {
			return nil, config.Errorf("train phase requires a %q feeder", TrainSplit)
		}
	}
	for _, split := range rc.Config.EvalSplits {
		if _, ok := rc.Feeders[split]; !ok {
			return nil, config.Errorf("missing feeder for eval split %q", split)
		}
	}

	r := &Runner{
		cfg:         rc.Config,
		runID:       rc.RunID,
		model:       rc.Model,
		optimizer:   rc.Optimizer,
		feeders:     rc.Feeders,
		log:         rc.Log,
		timer:       timing.New(),
		logInterval: rc.Config.LogInterval,
		startTime:   time.Now(),
		state:       StateIdle,
		epoch:       rc.Config.StartEpoch,
	}
	if r.logInterval <= 0 {
		r.logInterval = defaultLogInterval
	}

	if rc.Config.Weights != "" {
		if err := r.loadWeights(rc.Config.Weights, rc.Config.IgnoreWeights); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// loadWeights seeds the model from a persisted snapshot, dropping the
// configured ignore list and reconciling key mismatches permissively.
func (r *Runner) loadWeights(path string, ignore []string) error {
	r.log.Infof("load weights from %s", path)
	incoming, err := checkpoint.Load(path)
	if err != nil {
		return err
	}
	merged, warnings := checkpoint.Reconcile(r.model.ExportParameters(), incoming, ignore)
	for _, w := range warnings {
		r.log.Warnf("%s", w)
	}
	if err := r.model.LoadParameters(merged); err != nil {
		return wrapCompute("load parameters", err)
	}
	return nil
}

// History returns a copy of the per-epoch metric records produced so
// far, in epoch order.
func (r *Runner) History() []types.EpochMetrics {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.EpochMetrics, len(r.history))
	copy(out, r.history)
	return out
}

// Status returns a read-only projection of the run state. Safe to call
// from the status server goroutine while the run is in progress.
func (r *Runner) Status() types.StatusResponse {
	r.mu.RLock()
	defer r.mu.RUnlock()
	now := time.Now()
	return types.StatusResponse{
		RunID:            r.runID,
		State:            string(r.state),
		Phase:            r.cfg.Phase,
		Epoch:            r.epoch,
		NumEpoch:         r.cfg.NumEpoch,
		LastLoss:         r.lastLoss,
		LastLR:           r.lastLR,
		CheckpointsTotal: r.checkpoints,
		EvalsTotal:       r.evals,
		TimeShares:       r.timer.Proportions(),
		UptimeSeconds:    int64(now.Sub(r.startTime).Seconds()),
		ServerTimeUnix:   now.Unix(),
		Error:            r.lastErr,
	}
}

// Ready reports whether the runner is in a live, non-failed state.
func (r *Runner) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state != StateError
}

func (r *Runner) setState(s State, epoch int) {
	r.mu.Lock()
	r.state = s
	r.epoch = epoch
	r.mu.Unlock()
}

func (r *Runner) setFailed(err error) {
	r.mu.Lock()
	r.state = StateError
	r.lastErr = err.Error()
	r.mu.Unlock()
}

func (r *Runner) noteBatch(loss, lr float64) {
	r.mu.Lock()
	r.lastLoss = loss
	r.lastLR = lr
	r.mu.Unlock()
}

func (r *Runner) recordEpoch(m types.EpochMetrics) {
	r.mu.Lock()
	r.lastLoss = m.MeanLoss
	r.history = append(r.history, m)
	r.mu.Unlock()
}

func (r *Runner) noteCheckpoint() {
	r.mu.Lock()
	r.checkpoints++
	r.mu.Unlock()
}

func (r *Runner) noteEval() {
	r.mu.Lock()
	r.evals++
	r.mu.Unlock()
}
