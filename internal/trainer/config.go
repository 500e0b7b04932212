package trainer

import (
	"traind/internal/config"
	"traind/internal/optim"
	"traind/internal/runlog"
	"traind/pkg/types"
)

// Defaults applied when corresponding RunnerConfig fields are unset.
const (
	defaultLogInterval = 100
)

// RunnerConfig encapsulates everything a Runner needs. The model,
// optimizer, and feeders are constructed by the caller (normally via
// the registry) and handed over; the Runner owns them from then on.
type RunnerConfig struct {
	Config    config.Config
	RunID     string
	Model     types.Model
	Optimizer optim.Optimizer
	// Feeders maps split names to feeders. The "train" key is required
	// in the train phase; every configured eval split needs an entry.
	Feeders map[string]types.Feeder
	Log     *runlog.Logger
}
