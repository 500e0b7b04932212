package types

// Phase selects what a run executes: the full epoch loop or a single
// evaluation pass.
type Phase string

const (
	PhaseTrain Phase = "train"
	PhaseTest  Phase = "test"
)

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool { return p == PhaseTrain || p == PhaseTest }

// EvalSummary is the per-split result of one evaluation pass.
type EvalSummary struct {
	// Split is the evaluation dataset name (e.g. "test").
	Split string `json:"split"`
	// MeanLoss is the arithmetic mean of per-batch losses.
	MeanLoss float64 `json:"mean_loss"`
	// Samples is the number of scored samples.
	Samples int `json:"samples"`
	// TopK maps each configured k to its accuracy in [0,1].
	TopK map[int]float64 `json:"top_k"`
}

// EpochMetrics is the immutable record produced for each epoch.
type EpochMetrics struct {
	Epoch        int     `json:"epoch"`
	Batches      int     `json:"batches"`
	MeanLoss     float64 `json:"mean_loss"`
	LearningRate float64 `json:"lr"`
	// TimeShares maps timing bucket names to their integer percentage of
	// the run's cumulative wall-clock time.
	TimeShares map[string]int `json:"time_shares"`
	// Evals is set only for epochs where an evaluation pass ran.
	Evals []EvalSummary `json:"evals,omitempty"`
}

// ScoreRecord maps sample identifiers to raw model output vectors for
// one evaluation pass over one split.
type ScoreRecord map[string][]float64
