// Package feeder provides the built-in batch feeders. A feeder owns a
// dataset split and hands it out batch by batch; training feeders
// reshuffle on every Reset with a seeded source so runs are
// reproducible, eval feeders keep file order so scores line up with
// sample names.
package feeder

import (
	"encoding/json"
	"math/rand"

	"traind/internal/config"
	"traind/internal/registry"
	"traind/pkg/types"
)

// Sample is one labeled input vector.
type Sample struct {
	Name  string    `json:"name"`
	Input []float64 `json:"input"`
	Label int       `json:"label"`
}

// Memory serves an in-memory sample slice.
type Memory struct {
	samples   []Sample
	batchSize int
	shuffle   bool
	rng       *rand.Rand

	order []int
	pos   int
}

// NewMemory builds a feeder over samples. Validation is up front so a
// malformed dataset fails at construction, not mid-epoch.
func NewMemory(samples []Sample, opts registry.FeederOptions) (*Memory, error) {
	if len(samples) == 0 {
		return nil, config.Errorf("feeder requires at least one sample")
	}
	if opts.BatchSize <= 0 {
		return nil, config.Errorf("feeder batch size must be positive, got %d", opts.BatchSize)
	}
	width := len(samples[0].Input)
	for i, s := range samples {
		if len(s.Input) != width {
			return nil, config.Errorf("sample %d input width %d != %d", i, len(s.Input), width)
		}
		if s.Label < 0 {
			return nil, config.Errorf("sample %d has negative label %d", i, s.Label)
		}
	}

	m := &Memory{
		samples:   samples,
		batchSize: opts.BatchSize,
		shuffle:   opts.Shuffle,
		rng:       rand.New(rand.NewSource(opts.Seed)),
		order:     make([]int, len(samples)),
	}
	for i := range m.order {
		m.order[i] = i
	}
	m.Reset()
	return m, nil
}

// Len reports the number of batches one full pass delivers.
func (m *Memory) Len() int {
	return (len(m.samples) + m.batchSize - 1) / m.batchSize
}

// Samples reports the dataset size.
func (m *Memory) Samples() int { return len(m.samples) }

// Reset rewinds to the start of the split. Shuffling feeders draw a
// fresh permutation from their seeded source, so epoch order differs
// between epochs but not between runs.
func (m *Memory) Reset() {
	m.pos = 0
	if m.shuffle {
		m.rng.Shuffle(len(m.order), func(i, j int) {
			m.order[i], m.order[j] = m.order[j], m.order[i]
		})
	}
}

// NewMemoryFromArgs builds a memory feeder from inline samples under
// the "samples" arg, as written in a config file. The sample list is
// re-encoded through JSON so the three config codecs all land on the
// same shapes.
func NewMemoryFromArgs(opts registry.FeederOptions) (types.Feeder, error) {
	raw, ok := opts.Args["samples"]
	if !ok {
		return nil, config.Errorf("memory feeder requires a %q arg", "samples")
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, config.Errorf("memory feeder samples: %v", err)
	}
	var samples []Sample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, config.Errorf("memory feeder samples: %v", err)
	}
	return NewMemory(samples, opts)
}

func init() {
	registry.RegisterFeeder("memory", NewMemoryFromArgs)
}

// Next delivers the next batch. The final batch of a pass may be short.
func (m *Memory) Next() (types.Batch, bool) {
	if m.pos >= len(m.order) {
		return types.Batch{}, false
	}
	end := m.pos + m.batchSize
	if end > len(m.order) {
		end = len(m.order)
	}
	b := types.Batch{
		Inputs: make([][]float64, 0, end-m.pos),
		Labels: make([]int, 0, end-m.pos),
		Names:  make([]string, 0, end-m.pos),
	}
	for _, idx := range m.order[m.pos:end] {
		s := m.samples[idx]
		b.Inputs = append(b.Inputs, s.Input)
		b.Labels = append(b.Labels, s.Label)
		b.Names = append(b.Names, s.Name)
	}
	m.pos = end
	return b, true
}
