package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load overlays the config file at path onto cfg. Keys absent from the
// file leave cfg untouched, so loading into a Default() copy yields the
// file-over-defaults merge. Decoding is strict: a key not recognized by
// the schema is a config error.
// Supports: .yaml/.yml, .json, .toml
func Load(path string, cfg *Config) error {
	if path == "" {
		return errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return errorf("parse %s: %v", filepath.Base(path), err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return errorf("parse %s: %v", filepath.Base(path), err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return errorf("parse %s: %v", filepath.Base(path), err)
		}
	default:
		return errorf("unsupported config extension: %s", ext)
	}
	return nil
}
