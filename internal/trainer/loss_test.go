package trainer

import (
	"math"
	"testing"
)

func TestCrossEntropyUniform(t *testing.T) {
	// equal logits over 2 classes: loss = ln 2, grad = softmax - onehot
	loss, grad, err := crossEntropy([][]float64{{0, 0}}, []int{0})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if math.Abs(loss-math.Log(2)) > 1e-12 {
		t.Fatalf("loss %g want ln2", loss)
	}
	if math.Abs(grad[0][0]+0.5) > 1e-12 || math.Abs(grad[0][1]-0.5) > 1e-12 {
		t.Fatalf("grad %v want [-0.5 0.5]", grad[0])
	}
}

func TestCrossEntropyMeanOverBatch(t *testing.T) {
	// two identical rows: same loss as one, grads scaled by 1/2
	loss1, grad1, _ := crossEntropy([][]float64{{1, 0}}, []int{0})
	loss2, grad2, err := crossEntropy([][]float64{{1, 0}, {1, 0}}, []int{0, 0})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if math.Abs(loss1-loss2) > 1e-12 {
		t.Fatalf("batch mean changed loss: %g vs %g", loss1, loss2)
	}
	if math.Abs(grad2[0][0]-grad1[0][0]/2) > 1e-12 {
		t.Fatalf("grad not scaled by batch: %v vs %v", grad2[0], grad1[0])
	}
}

func TestCrossEntropyStableWithLargeLogits(t *testing.T) {
	loss, _, err := crossEntropy([][]float64{{1000, 0}}, []int{0})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if math.IsNaN(loss) || math.IsInf(loss, 0) || loss < 0 {
		t.Fatalf("unstable loss %g", loss)
	}
}

func TestCrossEntropyErrors(t *testing.T) {
	if _, _, err := crossEntropy(nil, nil); err == nil {
		t.Fatalf("expected error on empty batch")
	}
	if _, _, err := crossEntropy([][]float64{{0, 0}}, []int{0, 1}); err == nil {
		t.Fatalf("expected error on label count mismatch")
	}
	if _, _, err := crossEntropy([][]float64{{0, 0}}, []int{5}); err == nil {
		t.Fatalf("expected error on label out of range")
	}
}
