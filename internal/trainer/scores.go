package trainer

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"traind/internal/common/fsutil"
	"traind/pkg/types"
)

// scorePath returns the score-file path for an epoch and split, named
// by the one-based epoch number. With versioning enabled, an existing
// file is left alone and a numeric suffix is chosen instead; otherwise
// re-running the same epoch overwrites.
func scorePath(workDir string, epoch int, split string, versioning bool) string {
	base := filepath.Join(workDir, fmt.Sprintf("epoch%d_%s_score.json", epoch+1, split))
	if !versioning || !fsutil.PathExists(base) {
		return base
	}
	for v := 1; ; v++ {
		p := fmt.Sprintf("%s.%d", base, v)
		if !fsutil.PathExists(p) {
			return p
		}
	}
}

// persistScores writes the score record atomically.
func (r *Runner) persistScores(epoch int, split string, scores types.ScoreRecord) error {
	b, err := json.MarshalIndent(scores, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}
	path := scorePath(r.cfg.WorkDir, epoch, split, r.cfg.ScoreVersioning)
	if err := fsutil.WriteFileAtomic(path, b, 0o644); err != nil {
		return fmt.Errorf("write scores: %w", err)
	}
	r.log.Infof("scores for %s were saved in %s", split, path)
	return nil
}
