// Package runlog provides the per-run logger: structured zerolog output
// on the console, teed into an append-only log.txt inside the working
// directory so a finished run leaves a readable, timestamped transcript.
package runlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"traind/internal/common/fsutil"
)

// FileName is the transcript file appended inside the work dir.
const FileName = "log.txt"

// Logger wraps a zerolog.Logger bound to the run's work dir.
type Logger struct {
	zl   zerolog.Logger
	file *os.File
}

// New builds a run logger. When toFile is true, lines are also appended
// to <workDir>/log.txt; the file is created if missing and never
// truncated.
func New(workDir string, toFile bool) (*Logger, error) {
	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	writers := []io.Writer{console}

	var f *os.File
	if toFile {
		if err := fsutil.EnsureDir(workDir); err != nil {
			return nil, fmt.Errorf("ensure work dir: %w", err)
		}
		var err error
		f, err = os.OpenFile(filepath.Join(workDir, FileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", FileName, err)
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: true})
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	return &Logger{zl: zl, file: f}, nil
}

// NewDiscard returns a logger that drops everything. Used in tests.
func NewDiscard() *Logger {
	return &Logger{zl: zerolog.New(io.Discard)}
}

// Z exposes the underlying zerolog.Logger for structured call sites.
func (l *Logger) Z() zerolog.Logger { return l.zl }

// Infof logs a formatted info line.
func (l *Logger) Infof(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

// Warnf logs a formatted warning line.
func (l *Logger) Warnf(format string, args ...any) {
	l.zl.Warn().Msgf(format, args...)
}

// Errorf logs a formatted error line.
func (l *Logger) Errorf(format string, args ...any) {
	l.zl.Error().Msgf(format, args...)
}

// Close releases the transcript file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
