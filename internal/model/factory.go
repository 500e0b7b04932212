package model

import (
	"traind/internal/config"
	"traind/internal/registry"
	"traind/pkg/types"
)

// intArg reads an integer model argument. YAML and JSON decoders hand
// numbers over as different concrete types, so all of them are accepted.
func intArg(args map[string]any, key string) (int, error) {
	raw, ok := args[key]
	if !ok {
		return 0, config.Errorf("model requires an integer %q arg", key)
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, config.Errorf("model arg %q must be an integer, got %v", key, v)
		}
		return int(v), nil
	default:
		return 0, config.Errorf("model arg %q must be an integer, got %T", key, raw)
	}
}

func newLinearFromArgs(args map[string]any) (types.Model, error) {
	in, err := intArg(args, "in_features")
	if err != nil {
		return nil, err
	}
	classes, err := intArg(args, "num_classes")
	if err != nil {
		return nil, err
	}
	return NewLinear(in, classes)
}

func init() {
	registry.RegisterModel("linear", newLinearFromArgs)
}
