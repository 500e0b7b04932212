// Package checkpoint persists parameter snapshots and reconciles them
// against a freshly constructed model whose architecture may have
// drifted since the snapshot was written.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"traind/internal/common/fsutil"
	"traind/pkg/types"
)

// FilePath returns the checkpoint path for an epoch inside workDir,
// named by the one-based epoch number (epoch index + 1).
func FilePath(workDir string, epoch int) string {
	return filepath.Join(workDir, fmt.Sprintf("epoch%d_model.json", epoch+1))
}

// Load reads a parameter snapshot. Unreadable paths and invalid content
// are I/O errors (IsIO).
func Load(path string) (types.ParamValues, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapIO("read snapshot", err)
	}
	var snap types.ParamValues
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, wrapIO("decode snapshot", err)
	}
	if snap == nil {
		snap = types.ParamValues{}
	}
	return snap, nil
}

// Save writes a snapshot atomically (temp file + rename), so a crashed
// or failed write never leaves a partial checkpoint behind.
func Save(path string, snap types.ParamValues) error {
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return wrapIO("encode snapshot", err)
	}
	if err := fsutil.WriteFileAtomic(path, b, 0o644); err != nil {
		return wrapIO("write snapshot", err)
	}
	return nil
}

// Warning kinds reported by Reconcile.
const (
	WarnExcluded      = "excluded"       // key removed from the incoming snapshot
	WarnExcludeAbsent = "exclude-absent" // excluded key was not in the snapshot
	WarnMissing       = "missing"        // model key absent from the snapshot
)

// Warning is one recoverable reconciliation observation. Warnings are
// logged and the run proceeds; they are never errors.
type Warning struct {
	Kind string
	Key  string
}

func (w Warning) String() string {
	switch w.Kind {
	case WarnExcluded:
		return "removed weights: " + w.Key
	case WarnExcludeAbsent:
		return "can not remove weights (not present): " + w.Key
	case WarnMissing:
		return "can not find weights: " + w.Key
	default:
		return w.Kind + ": " + w.Key
	}
}

// Reconcile merges an incoming snapshot into the current parameter
// values.
//
// Keys listed in exclude are dropped from the snapshot first; each is
// reported as excluded or exclude-absent. Model keys missing from the
// snapshot are reported and keep their current (initialized) values.
// The overlay is permissive: snapshot keys unknown to the model are
// carried through untouched and left for the model layer to ignore, so
// checkpoints survive architecture drift.
//
// The inputs are not mutated. Warnings are ordered: exclusions in
// exclude order, then missing keys sorted by name.
func Reconcile(current, incoming types.ParamValues, exclude []string) (types.ParamValues, []Warning) {
	var warnings []Warning

	in := incoming.Clone()
	for _, k := range exclude {
		if _, ok := in[k]; ok {
			delete(in, k)
			warnings = append(warnings, Warning{Kind: WarnExcluded, Key: k})
		} else {
			warnings = append(warnings, Warning{Kind: WarnExcludeAbsent, Key: k})
		}
	}

	var missing []string
	for k := range current {
		if _, ok := in[k]; !ok {
			missing = append(missing, k)
		}
	}
	sort.Strings(missing)
	for _, k := range missing {
		warnings = append(warnings, Warning{Kind: WarnMissing, Key: k})
	}

	merged := current.Clone()
	for k, v := range in {
		c := make([]float64, len(v))
		copy(c, v)
		merged[k] = c
	}
	return merged, warnings
}
