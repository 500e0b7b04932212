package trainer

import (
	"fmt"

	"traind/internal/config"
	"traind/pkg/types"
)

// stubModel predicts per-class scores from a single bias parameter and
// ignores its input. Backward sums the output gradient rows into the
// bias gradient, so training moves the bias toward class priors.
type stubModel struct {
	mode       types.Mode
	bias       *types.Param
	forwardErr error
}

func newStubModel(classes int) *stubModel {
	return &stubModel{
		bias: &types.Param{
			Data: make([]float64, classes),
			Grad: make([]float64, classes),
		},
	}
}

func (m *stubModel) SetMode(mode types.Mode) { m.mode = mode }

func (m *stubModel) Forward(inputs [][]float64) ([][]float64, error) {
	if m.forwardErr != nil {
		return nil, m.forwardErr
	}
	out := make([][]float64, len(inputs))
	for i := range inputs {
		row := make([]float64, len(m.bias.Data))
		copy(row, m.bias.Data)
		out[i] = row
	}
	return out, nil
}

func (m *stubModel) Backward(gradOutput [][]float64) error {
	for _, row := range gradOutput {
		if len(row) != len(m.bias.Grad) {
			return fmt.Errorf("grad width %d != %d", len(row), len(m.bias.Grad))
		}
		for i, g := range row {
			m.bias.Grad[i] += g
		}
	}
	return nil
}

func (m *stubModel) Parameters() types.Params {
	return types.Params{"bias": m.bias}
}

func (m *stubModel) LoadParameters(values types.ParamValues) error {
	v, ok := values["bias"]
	if !ok {
		return nil
	}
	if len(v) != len(m.bias.Data) {
		return fmt.Errorf("bias size %d != %d", len(v), len(m.bias.Data))
	}
	copy(m.bias.Data, v)
	return nil
}

func (m *stubModel) ExportParameters() types.ParamValues {
	out := make([]float64, len(m.bias.Data))
	copy(out, m.bias.Data)
	return types.ParamValues{"bias": out}
}

// sliceFeeder delivers a fixed batch sequence in order.
type sliceFeeder struct {
	batches []types.Batch
	i       int
	resets  int
}

func (f *sliceFeeder) Len() int { return len(f.batches) }
func (f *sliceFeeder) Reset()   { f.i = 0; f.resets++ }
func (f *sliceFeeder) Next() (types.Batch, bool) {
	if f.i >= len(f.batches) {
		return types.Batch{}, false
	}
	b := f.batches[f.i]
	f.i++
	return b, true
}

// makeBatches builds nBatches batches of batchSize samples with
// round-robin labels over classes and names "<prefix>-<n>".
func makeBatches(prefix string, nBatches, batchSize, classes int) []types.Batch {
	var out []types.Batch
	n := 0
	for b := 0; b < nBatches; b++ {
		batch := types.Batch{}
		for s := 0; s < batchSize; s++ {
			batch.Inputs = append(batch.Inputs, []float64{float64(n)})
			batch.Labels = append(batch.Labels, n%classes)
			batch.Names = append(batch.Names, fmt.Sprintf("%s-%d", prefix, n))
			n++
		}
		out = append(out, batch)
	}
	return out
}

// testConfig returns a minimal valid config rooted at workDir.
func testConfig(workDir string) config.Config {
	cfg := config.Default()
	cfg.WorkDir = workDir
	cfg.NumEpoch = 1
	cfg.SaveInterval = 1
	cfg.EvalInterval = 1
	cfg.LogInterval = 1
	cfg.BatchSize = 2
	cfg.TestBatchSize = 2
	cfg.ShowTopK = []int{1, 2}
	return cfg
}
