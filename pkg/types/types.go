package types

// Mode selects whether a model applies training-only behavior
// (dropout, batch-norm statistics) or runs pure inference.
type Mode int

const (
	TrainMode Mode = iota
	EvalMode
)

// Batch is one unit of work delivered by a Feeder.
type Batch struct {
	// Inputs holds one encoded sample vector per row.
	Inputs [][]float64
	// Labels holds the class index for each row of Inputs.
	Labels []int
	// Names holds per-row sample identifiers. Required for evaluation
	// feeders (scores are keyed by name); optional for training feeders.
	Names []string
}

// Feeder is the dataset collaborator. Implementations own batch order:
// training feeders reshuffle on Reset, evaluation feeders keep a fixed
// order so sample names stay aligned across passes. A Feeder may load
// batches with internal worker parallelism, but Next is always called
// sequentially from a single goroutine.
type Feeder interface {
	// Len reports the number of batches delivered per pass.
	Len() int
	// Reset starts a new pass over the dataset.
	Reset()
	// Next returns the next batch, or ok=false when the pass is done.
	Next() (batch Batch, ok bool)
}

// Param is one named trainable tensor, flattened. Grad is written by the
// model's Backward and consumed by the optimizer step.
type Param struct {
	Data []float64
	Grad []float64
}

// Params maps parameter names to live tensors. Mutated in place by
// optimizer steps.
type Params map[string]*Param

// ParamValues is a point-in-time copy of parameter data by name, the
// form that checkpoints persist and reconciliation operates on.
type ParamValues map[string][]float64

// Clone returns a deep copy.
func (pv ParamValues) Clone() ParamValues {
	out := make(ParamValues, len(pv))
	for k, v := range pv {
		c := make([]float64, len(v))
		copy(c, v)
		out[k] = c
	}
	return out
}

// Model is the trainable-model collaborator. Construction from a config
// mapping happens through the registry; the orchestrator owns the handle
// for the lifetime of a run and lends it to the train/eval engines.
type Model interface {
	SetMode(Mode)
	// Forward computes output rows (one score vector per input row).
	Forward(inputs [][]float64) ([][]float64, error)
	// Backward accumulates parameter gradients from the loss gradient
	// with respect to the last Forward output.
	Backward(gradOutput [][]float64) error
	// Parameters exposes the live parameter tensors by name.
	Parameters() Params
	// LoadParameters overwrites matching parameters from values.
	// Names not present in the model are ignored; a size mismatch on a
	// matching name is an error.
	LoadParameters(values ParamValues) error
	// ExportParameters returns a detached copy of the current parameters.
	ExportParameters() ParamValues
}
