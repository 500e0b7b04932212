// Package optim implements the gradient-descent update rules applied
// after each batch's backward pass. The optimizer kind is resolved from
// configuration before the run starts; an unsupported kind never makes
// it to an epoch.
package optim

import (
	"math"

	"traind/internal/config"
	"traind/pkg/types"
)

// Optimizer applies one update step to the model's parameters using
// their accumulated gradients.
type Optimizer interface {
	Step(params types.Params, lr float64)
	ZeroGrad(params types.Params)
}

// New resolves the configured optimizer kind. Unknown kinds are a
// config error, surfaced at resolution time rather than mid-epoch.
func New(cfg config.Config) (Optimizer, error) {
	switch cfg.Optimizer {
	case config.OptimizerSGD:
		return &SGD{
			Momentum:    cfg.Momentum,
			Nesterov:    cfg.Nesterov,
			WeightDecay: cfg.WeightDecay,
		}, nil
	case config.OptimizerAdam:
		return &Adam{
			Beta1:       cfg.AdamBeta1,
			Beta2:       cfg.AdamBeta2,
			Eps:         cfg.AdamEps,
			WeightDecay: cfg.WeightDecay,
		}, nil
	default:
		return nil, config.Errorf("unsupported optimizer %q", cfg.Optimizer)
	}
}

// SGD is stochastic gradient descent with optional momentum, nesterov
// momentum, and L2 weight decay.
type SGD struct {
	Momentum    float64
	Nesterov    bool
	WeightDecay float64

	velocity map[string][]float64
}

// Step updates params in place: param -= lr * d where d is the
// (momentum-smoothed) gradient plus weight decay.
func (o *SGD) Step(params types.Params, lr float64) {
	if o.velocity == nil {
		o.velocity = make(map[string][]float64, len(params))
	}
	for name, p := range params {
		v := o.velocity[name]
		if v == nil {
			v = make([]float64, len(p.Data))
			o.velocity[name] = v
		}
		for i := range p.Data {
			grad := p.Grad[i] + o.WeightDecay*p.Data[i]
			if o.Momentum != 0 {
				v[i] = o.Momentum*v[i] + grad
				if o.Nesterov {
					grad += o.Momentum * v[i]
				} else {
					grad = v[i]
				}
			}
			p.Data[i] -= lr * grad
		}
	}
}

// ZeroGrad clears accumulated gradients.
func (o *SGD) ZeroGrad(params types.Params) { zeroGrad(params) }

// Adam implements the Adam update rule with bias-corrected first and
// second moment estimates.
type Adam struct {
	Beta1       float64
	Beta2       float64
	Eps         float64
	WeightDecay float64

	m map[string][]float64
	v map[string][]float64
	t int
}

// Step performs one Adam update over all parameters.
func (o *Adam) Step(params types.Params, lr float64) {
	if o.m == nil {
		o.m = make(map[string][]float64, len(params))
		o.v = make(map[string][]float64, len(params))
	}
	o.t++
	bias1 := 1.0 - math.Pow(o.Beta1, float64(o.t))
	bias2 := 1.0 - math.Pow(o.Beta2, float64(o.t))

	for name, p := range params {
		m := o.m[name]
		v := o.v[name]
		if m == nil {
			m = make([]float64, len(p.Data))
			v = make([]float64, len(p.Data))
			o.m[name] = m
			o.v[name] = v
		}
		for i := range p.Data {
			grad := p.Grad[i] + o.WeightDecay*p.Data[i]
			m[i] = o.Beta1*m[i] + (1.0-o.Beta1)*grad
			v[i] = o.Beta2*v[i] + (1.0-o.Beta2)*grad*grad
			mHat := m[i] / bias1
			vHat := v[i] / bias2
			p.Data[i] -= lr * mHat / (math.Sqrt(vHat) + o.Eps)
		}
	}
}

// ZeroGrad clears accumulated gradients.
func (o *Adam) ZeroGrad(params types.Params) { zeroGrad(params) }

func zeroGrad(params types.Params) {
	for _, p := range params {
		for i := range p.Grad {
			p.Grad[i] = 0
		}
	}
}
