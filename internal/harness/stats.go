package harness

import (
	"math"
	"sync"
	"time"
)

// IterationStats tracks timing of measured iterations for one parameter
// combination. Recording is O(1) and thread-safe.
type IterationStats struct {
	mu    sync.Mutex
	count int64
	total time.Duration
	min   time.Duration
	max   time.Duration
	sumSq float64 // seconds squared, for stddev
}

// NewIterationStats creates an empty tracker.
func NewIterationStats() *IterationStats {
	return &IterationStats{}
}

// Record adds one iteration duration.
func (s *IterationStats) Record(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.count == 0 || d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}
	s.count++
	s.total += d
	sec := d.Seconds()
	s.sumSq += sec * sec
}

// StatsSnapshot is an immutable copy of the tracker's state.
type StatsSnapshot struct {
	Count  int64
	Total  time.Duration
	Mean   time.Duration
	Min    time.Duration
	Max    time.Duration
	StdDev time.Duration
}

// Snapshot returns a copy of the current statistics.
func (s *IterationStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := StatsSnapshot{
		Count: s.count,
		Total: s.total,
		Min:   s.min,
		Max:   s.max,
	}
	if s.count == 0 {
		return snap
	}
	mean := s.total.Seconds() / float64(s.count)
	snap.Mean = time.Duration(mean * float64(time.Second))

	variance := s.sumSq/float64(s.count) - mean*mean
	if variance > 0 {
		snap.StdDev = time.Duration(math.Sqrt(variance) * float64(time.Second))
	}
	return snap
}
