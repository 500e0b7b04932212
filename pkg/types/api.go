package types

// StatusResponse is returned by GET /status on the optional run
// status server.
type StatusResponse struct {
	// Run identifier assigned at start.
	// example: 7f8b1c1e-0b1a-4f4e-9c1d-2a6d9f3b1a10
	RunID string `json:"run_id"`
	// Current orchestrator state (idle, training, evaluating, done, error).
	// example: training
	State string `json:"state"`
	// Run phase (train or test).
	// example: train
	Phase string `json:"phase"`
	// Zero-based index of the epoch in progress (or last completed).
	// example: 12
	Epoch int `json:"epoch"`
	// Configured final epoch bound.
	// example: 80
	NumEpoch int `json:"num_epoch"`
	// Mean training loss of the last completed epoch.
	// example: 0.4312
	LastLoss float64 `json:"last_loss"`
	// Learning rate applied to the epoch in progress.
	// example: 0.001
	LastLR float64 `json:"last_lr"`
	// Checkpoints written so far.
	// example: 3
	CheckpointsTotal uint64 `json:"checkpoints_total"`
	// Evaluation passes completed so far.
	// example: 6
	EvalsTotal uint64 `json:"evals_total"`
	// Timing bucket shares as integer percentages.
	TimeShares map[string]int `json:"time_shares,omitempty"`
	// Uptime of the run in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix"`
	// Last error observed by the runner (if any).
	Error string `json:"error,omitempty"`
}

// ErrorResponse is the JSON error payload used by the HTTP API.
type ErrorResponse struct {
	// Human-readable message.
	// example: feeder not found
	Error string `json:"error"`
	// HTTP status code echoed in the body.
	// example: 404
	Code int `json:"code"`
}
