// Package timing tracks where a run's wall-clock time goes, split into
// coarse buckets, to diagnose data-loading vs compute bottlenecks.
package timing

import (
	"sync"
	"time"
)

// Bucket names tracked by the accumulator.
const (
	BucketDataLoad    = "data-load"
	BucketCompute     = "compute"
	BucketBookkeeping = "bookkeeping"
)

// epsilon seeds every bucket so proportions never divide by zero when a
// run saw no batches (empty dataset).
const epsilon = 0.001

// Accumulator collects cumulative seconds per bucket across a run.
// Splits come from the single run goroutine, but Proportions and
// Seconds may be called concurrently from a status server, so all
// bucket access is serialized internally.
type Accumulator struct {
	mu      sync.Mutex
	buckets map[string]float64
	mark    time.Time
	now     func() time.Time
}

// New returns an accumulator with all buckets seeded and the mark set.
func New() *Accumulator {
	return newWithClock(time.Now)
}

func newWithClock(now func() time.Time) *Accumulator {
	a := &Accumulator{
		buckets: map[string]float64{
			BucketDataLoad:    epsilon,
			BucketCompute:     epsilon,
			BucketBookkeeping: epsilon,
		},
		now: now,
	}
	a.mark = now()
	return a
}

// Mark resets the split point without charging any bucket.
func (a *Accumulator) Mark() {
	a.mu.Lock()
	a.mark = a.now()
	a.mu.Unlock()
}

// Split charges the time since the last mark to bucket and re-marks.
// If the clock did not advance (or ran backwards), zero is charged
// rather than a negative duration.
func (a *Accumulator) Split(bucket string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t := a.now()
	d := t.Sub(a.mark).Seconds()
	if d < 0 {
		d = 0
	}
	a.buckets[bucket] += d
	a.mark = t
}

// Seconds returns the cumulative seconds charged to bucket.
func (a *Accumulator) Seconds(bucket string) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buckets[bucket]
}

// Proportions returns each bucket's share of the total as a percentage
// rounded to the nearest integer. The returned map is a snapshot owned
// by the caller.
func (a *Accumulator) Proportions() map[string]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	total := 0.0
	for _, v := range a.buckets {
		total += v
	}
	out := make(map[string]int, len(a.buckets))
	for k, v := range a.buckets {
		out[k] = int(v*100/total + 0.5)
	}
	return out
}
