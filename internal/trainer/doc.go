// Package trainer drives a training run: the epoch loop, the per-batch
// train step, evaluation passes, checkpoint cadence, and the status
// projection read by the optional HTTP surface. It is structured into
// small files by concern:
//
//   - runner.go: core Runner type, constructor, weights seeding, status.
//   - config.go: RunnerConfig and package defaults.
//   - types.go: run states.
//   - errors.go: error types and helpers (IsCompute).
//   - start.go: Start; phase dispatch, epoch loop, save/eval cadence.
//   - train.go: one epoch of forward/backward/update over all batches.
//   - eval.go: evaluation passes, top-k scoring.
//   - loss.go: cross-entropy loss and its gradient.
//   - scores.go: per-epoch score record persistence.
//
// A Runner owns its model and optimizer exclusively for the run's
// lifetime; the train and eval engines borrow them for one call at a
// time, so the model is never read by evaluation while training mutates
// it. External packages should construct a Runner with New and call
// Start once.
package trainer
