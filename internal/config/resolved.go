package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"traind/internal/common/fsutil"
)

// ResolvedName is the file name of the configuration snapshot written
// into the working directory at run start.
const ResolvedName = "config.yaml"

type resolvedSnapshot struct {
	RunID   string `yaml:"run_id"`
	SavedAt string `yaml:"saved_at"`
	Config  Config `yaml:",inline"`
}

// WriteResolved assigns a fresh run ID and persists the fully resolved
// configuration to <work_dir>/config.yaml so the run is reproducible.
// The write is atomic. Returns the run ID.
func WriteResolved(cfg Config) (string, error) {
	if err := fsutil.EnsureDir(cfg.WorkDir); err != nil {
		return "", fmt.Errorf("ensure work dir: %w", err)
	}
	snap := resolvedSnapshot{
		RunID:   uuid.NewString(),
		SavedAt: time.Now().Format(time.RFC3339),
		Config:  cfg,
	}
	b, err := yaml.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshal resolved config: %w", err)
	}
	path := filepath.Join(cfg.WorkDir, ResolvedName)
	if err := fsutil.WriteFileAtomic(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write resolved config: %w", err)
	}
	return snap.RunID, nil
}
