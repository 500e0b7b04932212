package trainer

import (
	"traind/internal/checkpoint"
	"traind/internal/metrics"
	"traind/internal/schedule"
	"traind/pkg/types"
)

// Start executes the run to completion: the full epoch loop in the
// train phase, or a single evaluation pass in the test phase. Any
// training-step failure is fatal; a failed checkpoint save at an epoch
// boundary is logged and the run continues.
func (r *Runner) Start() error {
	switch types.Phase(r.cfg.Phase) {
	case types.PhaseTrain:
		if err := r.runTrainPhase(); err != nil {
			r.setFailed(err)
			return err
		}
		r.setState(StateDone, r.cfg.NumEpoch-1)
	case types.PhaseTest:
		if err := r.runTestPhase(); err != nil {
			r.setFailed(err)
			return err
		}
		r.setState(StateDone, r.cfg.StartEpoch)
	default:
		err := errUnknownPhase(r.cfg.Phase)
		r.setFailed(err)
		return err
	}
	return nil
}

func (r *Runner) runTrainPhase() error {
	for epoch := r.cfg.StartEpoch; epoch < r.cfg.NumEpoch; epoch++ {
		saveModel := (epoch+1)%r.cfg.SaveInterval == 0 || epoch+1 == r.cfg.NumEpoch
		evalModel := (epoch+1)%r.cfg.EvalInterval == 0 || epoch+1 == r.cfg.NumEpoch

		r.setState(StateTraining, epoch)
		r.log.Infof("training epoch: %d", epoch+1)
		lr := schedule.LearningRate(r.cfg.BaseLR, epoch, r.cfg.Step)
		metrics.LearningRate.Set(lr)

		em, err := r.runEpoch(epoch, lr)
		if err != nil {
			return err
		}
		r.log.Infof("\tMean training loss: %.4f.", em.MeanLoss)
		r.log.Infof("\tTime consumption: [Data]%02d%%, [Network]%02d%%", em.TimeShares["data-load"], em.TimeShares["compute"])
		metrics.EpochsTotal.Inc()
		metrics.TrainLoss.Set(em.MeanLoss)
		for bucket, pct := range em.TimeShares {
			metrics.TimeShare.WithLabelValues(bucket).Set(float64(pct))
		}

		if saveModel {
			r.saveCheckpoint(epoch)
		}
		if evalModel {
			r.setState(StateEvaluating, epoch)
			r.log.Infof("eval epoch: %d", epoch+1)
			evals, err := r.runEval(epoch, true)
			if err != nil {
				return err
			}
			em.Evals = evals
		}
		r.recordEpoch(em)
	}
	return nil
}

func (r *Runner) runTestPhase() error {
	epoch := r.cfg.StartEpoch
	r.setState(StateEvaluating, epoch)
	r.log.Infof("eval epoch: %d", epoch+1)
	evals, err := r.runEval(epoch, true)
	if err != nil {
		return err
	}
	r.recordEpoch(types.EpochMetrics{
		Epoch:      epoch,
		TimeShares: r.timer.Proportions(),
		Evals:      evals,
	})
	return nil
}

// saveCheckpoint persists the model's parameters for an epoch boundary.
// Failure is surfaced in the log and metrics but does not abort the
// run; the next boundary will try again.
func (r *Runner) saveCheckpoint(epoch int) {
	path := checkpoint.FilePath(r.cfg.WorkDir, epoch)
	if err := checkpoint.Save(path, r.model.ExportParameters()); err != nil {
		metrics.CheckpointFailures.Inc()
		r.log.Errorf("checkpoint save failed: %v", err)
		return
	}
	metrics.CheckpointsTotal.Inc()
	r.noteCheckpoint()
	r.log.Infof("the model was saved in %s", path)
}
