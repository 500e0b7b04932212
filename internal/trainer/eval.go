package trainer

import (
	"fmt"
	"strconv"

	"traind/internal/metrics"
	"traind/pkg/types"
)

// runEval runs one inference pass over every configured eval split.
// The model is in inference mode for the duration; no parameter
// mutation occurs. Scores are collected per sample, keyed by the
// feeder-provided sample name. When saveScores is set, the score record
// of each split is persisted; a persistence failure is logged and does
// not invalidate the computed accuracies.
func (r *Runner) runEval(epoch int, saveScores bool) ([]types.EvalSummary, error) {
	r.model.SetMode(types.EvalMode)
	summaries := make([]types.EvalSummary, 0, len(r.cfg.EvalSplits))

	for _, split := range r.cfg.EvalSplits {
		loader := r.feeders[split]
		loader.Reset()

		lossSum := 0.0
		batches := 0
		samples := 0
		scores := types.ScoreRecord{}
		correct := make(map[int]int, len(r.cfg.ShowTopK))

		for {
			batch, ok := loader.Next()
			if !ok {
				break
			}
			out, err := r.model.Forward(batch.Inputs)
			if err != nil {
				return nil, wrapCompute("forward", err)
			}
			loss, _, err := crossEntropy(out, batch.Labels)
			if err != nil {
				return nil, wrapCompute("loss", err)
			}
			if len(batch.Names) != len(out) {
				return nil, wrapCompute("scores", fmt.Errorf("split %q batch has %d names for %d samples", split, len(batch.Names), len(out)))
			}
			for i, row := range out {
				c := make([]float64, len(row))
				copy(c, row)
				scores[batch.Names[i]] = c
				for _, k := range r.cfg.ShowTopK {
					if inTopK(row, batch.Labels[i], k) {
						correct[k]++
					}
				}
				samples++
			}
			lossSum += loss
			batches++
		}

		mean := 0.0
		if batches > 0 {
			mean = lossSum / float64(batches)
		}
		topk := make(map[int]float64, len(r.cfg.ShowTopK))
		for _, k := range r.cfg.ShowTopK {
			acc := 0.0
			if samples > 0 {
				acc = float64(correct[k]) / float64(samples)
			}
			topk[k] = acc
		}

		r.log.Infof("\tMean %s loss of %d batches: %.4f.", split, batches, mean)
		metrics.EvalLoss.WithLabelValues(split).Set(mean)
		for _, k := range r.cfg.ShowTopK {
			r.log.Infof("\tTop%d: %.2f%%", k, 100*topk[k])
			metrics.EvalAccuracy.WithLabelValues(split, strconv.Itoa(k)).Set(topk[k])
		}

		if saveScores {
			if err := r.persistScores(epoch, split, scores); err != nil {
				r.log.Errorf("save %s scores: %v", split, err)
			}
		}

		summaries = append(summaries, types.EvalSummary{
			Split:    split,
			MeanLoss: mean,
			Samples:  samples,
			TopK:     topk,
		})
	}
	r.noteEval()
	return summaries, nil
}

// inTopK reports whether label ranks among the k highest scores. Ties
// resolve in the label's favor (only strictly greater scores push it
// out). A k at or above the class count clamps to always correct: the
// label is necessarily among that many classes, and the class count is
// a model property unknown at config-validation time.
func inTopK(scores []float64, label, k int) bool {
	if label < 0 || label >= len(scores) {
		return false
	}
	if k >= len(scores) {
		return true
	}
	greater := 0
	for _, s := range scores {
		if s > scores[label] {
			greater++
			if greater >= k {
				return false
			}
		}
	}
	return true
}
