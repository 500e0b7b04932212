// Package registry resolves feeder and model identifiers to constructor
// functions. Pluggable units register themselves by name (usually from
// an init func); the orchestrator resolves identifiers once, at
// configuration time, so an unknown name aborts before any training.
package registry

import (
	"sort"
	"sync"

	"traind/internal/config"
	"traind/pkg/types"
)

// FeederOptions carries the loader-level knobs alongside the feeder's
// own constructor arguments from the config file.
type FeederOptions struct {
	// Args is the feeder's constructor argument mapping
	// (train_feeder_args / test_feeder_args).
	Args map[string]any
	// BatchSize is the number of samples per delivered batch.
	BatchSize int
	// Workers is the parallelism hint for feeder-internal loading.
	Workers int
	// Seed drives shuffle determinism.
	Seed int64
	// Shuffle selects training order (true) or fixed eval order (false).
	Shuffle bool
}

// FeederFactory builds a Feeder from resolved options.
type FeederFactory func(opts FeederOptions) (types.Feeder, error)

// ModelFactory builds a Model from its constructor argument mapping.
type ModelFactory func(args map[string]any) (types.Model, error)

var (
	mu      sync.RWMutex
	feeders = map[string]FeederFactory{}
	models  = map[string]ModelFactory{}
)

// RegisterFeeder installs a feeder factory under name. Re-registering a
// name replaces the previous factory.
func RegisterFeeder(name string, f FeederFactory) {
	mu.Lock()
	defer mu.Unlock()
	feeders[name] = f
}

// RegisterModel installs a model factory under name.
func RegisterModel(name string, f ModelFactory) {
	mu.Lock()
	defer mu.Unlock()
	models[name] = f
}

// NewFeeder resolves name and constructs a feeder. Unknown names are a
// config error.
func NewFeeder(name string, opts FeederOptions) (types.Feeder, error) {
	mu.RLock()
	f, ok := feeders[name]
	mu.RUnlock()
	if !ok {
		return nil, config.Errorf("unknown feeder %q (registered: %v)", name, Feeders())
	}
	return f(opts)
}

// NewModel resolves name and constructs a model. Unknown names are a
// config error.
func NewModel(name string, args map[string]any) (types.Model, error) {
	mu.RLock()
	f, ok := models[name]
	mu.RUnlock()
	if !ok {
		return nil, config.Errorf("unknown model %q (registered: %v)", name, Models())
	}
	return f(args)
}

// Feeders lists registered feeder names, sorted.
func Feeders() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(feeders))
	for k := range feeders {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Models lists registered model names, sorted.
func Models() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(models))
	for k := range models {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
