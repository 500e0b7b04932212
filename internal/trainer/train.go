package trainer

import (
	"time"

	"traind/internal/metrics"
	"traind/internal/timing"
	"traind/pkg/types"
)

// runEpoch executes one full pass over the training feeder: per batch,
// forward, loss, zero grads, backward, optimizer step at the given lr.
// The mean loss is the arithmetic mean over batches (not weighted by
// batch size). Mutates the model in place; never mutates the feeder.
func (r *Runner) runEpoch(epoch int, lr float64) (types.EpochMetrics, error) {
	r.model.SetMode(types.TrainMode)
	loader := r.feeders[TrainSplit]
	loader.Reset()
	total := loader.Len()

	lossSum := 0.0
	batches := 0

	r.timer.Mark()
	for idx := 0; ; idx++ {
		batch, ok := loader.Next()
		if !ok {
			break
		}
		r.timer.Split(timing.BucketDataLoad)

		stepStart := time.Now()
		out, err := r.model.Forward(batch.Inputs)
		if err != nil {
			return types.EpochMetrics{}, wrapCompute("forward", err)
		}
		loss, grad, err := crossEntropy(out, batch.Labels)
		if err != nil {
			return types.EpochMetrics{}, wrapCompute("loss", err)
		}
		r.optimizer.ZeroGrad(r.model.Parameters())
		if err := r.model.Backward(grad); err != nil {
			return types.EpochMetrics{}, wrapCompute("backward", err)
		}
		r.optimizer.Step(r.model.Parameters(), lr)
		r.timer.Split(timing.BucketCompute)
		metrics.BatchDuration.Observe(time.Since(stepStart).Seconds())

		lossSum += loss
		batches++
		metrics.BatchesTotal.Inc()
		r.noteBatch(loss, lr)
		if idx%r.logInterval == 0 {
			r.log.Infof("\tBatch(%d/%d) done. Loss: %.4f  lr: %g", idx, total, loss, lr)
		}
		r.timer.Split(timing.BucketBookkeeping)
	}

	mean := 0.0
	if batches > 0 {
		mean = lossSum / float64(batches)
	}
	return types.EpochMetrics{
		Epoch:        epoch,
		Batches:      batches,
		MeanLoss:     mean,
		LearningRate: lr,
		TimeShares:   r.timer.Proportions(),
	}, nil
}
