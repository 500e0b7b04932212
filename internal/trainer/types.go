package trainer

// State represents the lifecycle state of a run.
type State string

const (
	StateIdle       State = "idle"
	StateTraining   State = "training"
	StateEvaluating State = "evaluating"
	StateDone       State = "done"
	StateError      State = "error"
)

// TrainSplit is the reserved feeder key for the training dataset.
const TrainSplit = "train"
