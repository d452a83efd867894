package harness

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/colbench/colbench/internal/column"
	"github.com/colbench/colbench/internal/stream"
)

// MeasurePolicy controls the warmup and measurement loop of one
// parameter combination. It stands in for a benchmarking framework's
// own stopping criterion with a fixed, simple policy.
type MeasurePolicy struct {
	// WarmupTime is the minimum wall time spent warming up.
	WarmupTime time.Duration

	// MeasureTime is the minimum wall time spent measuring once the
	// minimum iteration count is reached.
	MeasureTime time.Duration

	// MinIterations is the minimum number of measured iterations.
	MinIterations int

	// MaxIterations caps the measured iterations regardless of time.
	MaxIterations int
}

// DefaultMeasurePolicy returns the standard policy.
func DefaultMeasurePolicy() MeasurePolicy {
	return MeasurePolicy{
		WarmupTime:    100 * time.Millisecond,
		MeasureTime:   500 * time.Millisecond,
		MinIterations: 3,
		MaxIterations: 1000,
	}
}

// State is the harness's view of one parameter combination: axis value
// access, the combination's execution stream, memory-traffic counters,
// and the timed execution loop. A State is never shared between
// combinations.
type State struct {
	ctx       context.Context
	benchName string
	int64s    map[string]int64
	float64s  map[string]float64
	kind      column.Kind
	hasKind   bool
	st        *stream.Stream
	policy    MeasurePolicy

	readBytes  atomic.Int64
	writeBytes atomic.Int64
	stats      *IterationStats
}

func newState(ctx context.Context, benchName string, c combination, st *stream.Stream, policy MeasurePolicy) *State {
	return &State{
		ctx:       ctx,
		benchName: benchName,
		int64s:    c.int64s,
		float64s:  c.float64s,
		kind:      c.kind,
		hasKind:   c.hasKind,
		st:        st,
		policy:    policy,
		stats:     NewIterationStats(),
	}
}

// Context returns the run's context.
func (s *State) Context() context.Context {
	return s.ctx
}

// Int64 returns the current value of the named integer axis. A missing
// axis is a programmer error in the benchmark definition.
func (s *State) Int64(name string) int64 {
	v, ok := s.int64s[name]
	if !ok {
		panic(fmt.Sprintf("harness: benchmark %s has no int64 axis %q", s.benchName, name))
	}
	return v
}

// Float64 returns the current value of the named floating-point axis.
func (s *State) Float64(name string) float64 {
	v, ok := s.float64s[name]
	if !ok {
		panic(fmt.Sprintf("harness: benchmark %s has no float64 axis %q", s.benchName, name))
	}
	return v
}

// Kind returns the current element kind of the type axis.
func (s *State) Kind() column.Kind {
	if !s.hasKind {
		panic(fmt.Sprintf("harness: benchmark %s has no type axis", s.benchName))
	}
	return s.kind
}

// Stream returns the combination's execution stream.
func (s *State) Stream() *stream.Stream {
	return s.st
}

// AddGlobalMemoryReads adds n bytes to the combination's read counter.
// Counters are recorded once per combination, not per iteration.
func (s *State) AddGlobalMemoryReads(n int64) {
	s.readBytes.Add(n)
}

// AddGlobalMemoryWrites adds n bytes to the write counter.
func (s *State) AddGlobalMemoryWrites(n int64) {
	s.writeBytes.Add(n)
}

// Exec runs the measured body: a warmup phase, then timed iterations
// under the measurement policy. Every iteration synchronizes the
// combination's stream before its timer stops, so durations cover true
// completion of submitted work. The first error aborts the loop.
func (s *State) Exec(fn func() error) error {
	iterate := func() (time.Duration, error) {
		start := time.Now()
		err := fn()
		s.st.Synchronize()
		return time.Since(start), err
	}

	// Warmup.
	warmupStart := time.Now()
	for {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		if _, err := iterate(); err != nil {
			return err
		}
		if time.Since(warmupStart) >= s.policy.WarmupTime {
			break
		}
	}

	// Measurement.
	measureStart := time.Now()
	iters := 0
	for {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		d, err := iterate()
		if err != nil {
			return err
		}
		s.stats.Record(d)
		iters++

		if s.policy.MaxIterations > 0 && iters >= s.policy.MaxIterations {
			break
		}
		if iters >= s.policy.MinIterations && time.Since(measureStart) >= s.policy.MeasureTime {
			break
		}
	}
	return nil
}
