// Package schedule computes the effective learning rate for an epoch.
package schedule

import "math"

// LearningRate applies step decay: the base rate is multiplied by 0.1
// for every configured step boundary at or below the epoch index.
// steps must be non-decreasing (enforced by config validation). Pure
// function; the runner recomputes it every epoch so the optimizer's
// effective rate has a single source of truth.
func LearningRate(baseLR float64, epoch int, steps []int) float64 {
	n := 0
	for _, s := range steps {
		if s <= epoch {
			n++
		}
	}
	return baseLR * math.Pow(0.1, float64(n))
}
