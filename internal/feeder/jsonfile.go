package feeder

import (
	"encoding/json"
	"os"

	"traind/internal/config"
	"traind/internal/registry"
	"traind/pkg/types"
)

// dataset is the on-disk JSON layout consumed by the jsonfile feeder.
type dataset struct {
	Samples []Sample `json:"samples"`
}

// NewJSONFile loads a dataset file and serves it from memory. The path
// comes from the feeder args under the "path" key.
func NewJSONFile(opts registry.FeederOptions) (types.Feeder, error) {
	raw, ok := opts.Args["path"]
	if !ok {
		return nil, config.Errorf("jsonfile feeder requires a %q arg", "path")
	}
	path, ok := raw.(string)
	if !ok || path == "" {
		return nil, config.Errorf("jsonfile feeder %q arg must be a non-empty string", "path")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, config.Errorf("read dataset %s: %v", path, err)
	}
	var ds dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, config.Errorf("decode dataset %s: %v", path, err)
	}
	return NewMemory(ds.Samples, opts)
}

func init() {
	registry.RegisterFeeder("jsonfile", NewJSONFile)
}
