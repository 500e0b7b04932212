// Package model provides the built-in trainable models.
package model

import (
	"traind/internal/config"
	"traind/pkg/types"
)

// Linear is a single-layer classifier: per-class scores are an affine
// map of the input vector. Forward caches its inputs so the following
// Backward can form the weight gradient.
type Linear struct {
	in      int
	classes int
	weight  *types.Param
	bias    *types.Param

	mode   types.Mode
	cached [][]float64
}

// NewLinear builds a zero-initialized classifier with the given input
// width and class count.
func NewLinear(inFeatures, numClasses int) (*Linear, error) {
	if inFeatures <= 0 || numClasses <= 0 {
		return nil, config.Errorf("linear model requires positive dimensions, got in=%d classes=%d", inFeatures, numClasses)
	}
	return &Linear{
		in:      inFeatures,
		classes: numClasses,
		weight: &types.Param{
			Data: make([]float64, numClasses*inFeatures),
			Grad: make([]float64, numClasses*inFeatures),
		},
		bias: &types.Param{
			Data: make([]float64, numClasses),
			Grad: make([]float64, numClasses),
		},
	}, nil
}

func (l *Linear) SetMode(mode types.Mode) { l.mode = mode }

// Forward scores every input row. Inputs are cached only in train mode;
// eval passes never call Backward.
func (l *Linear) Forward(inputs [][]float64) ([][]float64, error) {
	out := make([][]float64, len(inputs))
	for i, x := range inputs {
		if len(x) != l.in {
			return nil, config.Errorf("input width %d != model width %d", len(x), l.in)
		}
		row := make([]float64, l.classes)
		for c := 0; c < l.classes; c++ {
			sum := l.bias.Data[c]
			w := l.weight.Data[c*l.in : (c+1)*l.in]
			for j, v := range x {
				sum += w[j] * v
			}
			row[c] = sum
		}
		out[i] = row
	}
	if l.mode == types.TrainMode {
		l.cached = inputs
	} else {
		l.cached = nil
	}
	return out, nil
}

// Backward accumulates parameter gradients from the output gradient of
// the most recent Forward.
func (l *Linear) Backward(gradOutput [][]float64) error {
	if len(gradOutput) != len(l.cached) {
		return config.Errorf("gradient batch %d != cached batch %d", len(gradOutput), len(l.cached))
	}
	for i, g := range gradOutput {
		if len(g) != l.classes {
			return config.Errorf("gradient width %d != %d classes", len(g), l.classes)
		}
		x := l.cached[i]
		for c, gc := range g {
			l.bias.Grad[c] += gc
			w := l.weight.Grad[c*l.in : (c+1)*l.in]
			for j, v := range x {
				w[j] += gc * v
			}
		}
	}
	return nil
}

func (l *Linear) Parameters() types.Params {
	return types.Params{"weight": l.weight, "bias": l.bias}
}

// LoadParameters overwrites matching parameters in place. Unknown keys
// are ignored; reconciliation upstream already reported them.
func (l *Linear) LoadParameters(values types.ParamValues) error {
	if v, ok := values["weight"]; ok {
		if len(v) != len(l.weight.Data) {
			return config.Errorf("weight size %d != %d", len(v), len(l.weight.Data))
		}
		copy(l.weight.Data, v)
	}
	if v, ok := values["bias"]; ok {
		if len(v) != len(l.bias.Data) {
			return config.Errorf("bias size %d != %d", len(v), len(l.bias.Data))
		}
		copy(l.bias.Data, v)
	}
	return nil
}

func (l *Linear) ExportParameters() types.ParamValues {
	return types.ParamValues{
		"weight": append([]float64(nil), l.weight.Data...),
		"bias":   append([]float64(nil), l.bias.Data...),
	}
}
