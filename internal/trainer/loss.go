package trainer

import "math"

// crossEntropy computes the mean softmax cross-entropy loss over a
// batch of output rows and the loss gradient with respect to those
// outputs (softmax(row) minus one-hot label, scaled by 1/batch).
// Uses the max-shift log-sum-exp form for numerical stability.
func crossEntropy(outputs [][]float64, labels []int) (float64, [][]float64, error) {
	n := len(outputs)
	if n == 0 {
		return 0, nil, errEmptyBatch
	}
	if len(labels) != n {
		return 0, nil, errLabelCount(len(labels), n)
	}

	grad := make([][]float64, n)
	total := 0.0
	for b, row := range outputs {
		if len(row) == 0 {
			return 0, nil, errEmptyBatch
		}
		label := labels[b]
		if label < 0 || label >= len(row) {
			return 0, nil, errLabelRange(label, len(row))
		}

		maxLogit := row[0]
		for _, v := range row[1:] {
			if v > maxLogit {
				maxLogit = v
			}
		}
		sumExp := 0.0
		for _, v := range row {
			sumExp += math.Exp(v - maxLogit)
		}
		logSumExp := maxLogit + math.Log(sumExp)
		total += logSumExp - row[label]

		g := make([]float64, len(row))
		inv := 1.0 / float64(n)
		for i, v := range row {
			g[i] = math.Exp(v-logSumExp) * inv
		}
		g[label] -= inv
		grad[b] = g
	}
	return total / float64(n), grad, nil
}
