package optim

import (
	"math"
	"testing"

	"traind/internal/config"
	"traind/pkg/types"
)

func singleParam(data, grad []float64) types.Params {
	return types.Params{"w": {Data: data, Grad: grad}}
}

func TestNewResolvesKinds(t *testing.T) {
	cfg := config.Default()
	cfg.Optimizer = config.OptimizerSGD
	if _, err := New(cfg); err != nil {
		t.Fatalf("SGD: %v", err)
	}
	cfg.Optimizer = config.OptimizerAdam
	if _, err := New(cfg); err != nil {
		t.Fatalf("Adam: %v", err)
	}
	cfg.Optimizer = "LBFGS"
	if _, err := New(cfg); err == nil || !config.IsConfig(err) {
		t.Fatalf("expected config error for unknown kind, got %v", err)
	}
}

func TestSGDPlainStep(t *testing.T) {
	params := singleParam([]float64{1.0}, []float64{0.5})
	o := &SGD{}
	o.Step(params, 0.1)
	want := 1.0 - 0.1*0.5
	if got := params["w"].Data[0]; math.Abs(got-want) > 1e-12 {
		t.Fatalf("got %g want %g", got, want)
	}
}

func TestSGDWeightDecay(t *testing.T) {
	params := singleParam([]float64{2.0}, []float64{0.0})
	o := &SGD{WeightDecay: 0.5}
	o.Step(params, 0.1)
	// grad = 0 + 0.5*2.0 = 1.0 -> param = 2.0 - 0.1
	if got := params["w"].Data[0]; math.Abs(got-1.9) > 1e-12 {
		t.Fatalf("got %g want 1.9", got)
	}
}

func TestSGDMomentumAccumulates(t *testing.T) {
	params := singleParam([]float64{0.0}, []float64{1.0})
	o := &SGD{Momentum: 0.9}
	o.Step(params, 1.0) // v=1, param=-1
	params["w"].Grad[0] = 1.0
	o.Step(params, 1.0) // v=1.9, param=-2.9
	if got := params["w"].Data[0]; math.Abs(got+2.9) > 1e-12 {
		t.Fatalf("got %g want -2.9", got)
	}
}

func TestAdamFirstStepMovesByLR(t *testing.T) {
	params := singleParam([]float64{1.0}, []float64{0.3})
	o := &Adam{Beta1: 0.9, Beta2: 0.999, Eps: 1e-8}
	o.Step(params, 0.01)
	// with bias correction the first step is ~lr regardless of grad scale
	got := 1.0 - params["w"].Data[0]
	if math.Abs(got-0.01) > 1e-4 {
		t.Fatalf("first Adam step %g, want ~0.01", got)
	}
}

func TestAdamDescendsQuadratic(t *testing.T) {
	// minimize f(w) = w^2, grad = 2w
	params := singleParam([]float64{1.0}, []float64{0})
	o := &Adam{Beta1: 0.9, Beta2: 0.999, Eps: 1e-8}
	for i := 0; i < 500; i++ {
		params["w"].Grad[0] = 2 * params["w"].Data[0]
		o.Step(params, 0.05)
	}
	if w := math.Abs(params["w"].Data[0]); w > 0.1 {
		t.Fatalf("Adam failed to descend, |w|=%g", w)
	}
}

func TestZeroGrad(t *testing.T) {
	params := singleParam([]float64{1}, []float64{5})
	(&SGD{}).ZeroGrad(params)
	if params["w"].Grad[0] != 0 {
		t.Fatalf("grad not cleared: %v", params["w"].Grad)
	}
}
