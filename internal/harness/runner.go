package harness

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	verrors "github.com/colbench/colbench/internal/errors"
	"github.com/colbench/colbench/internal/stream"
)

// Report holds the outcome of one parameter combination.
type Report struct {
	Benchmark     string
	ElementType   string // empty when the benchmark has no type axis
	Int64Params   map[string]int64
	Float64Params map[string]float64

	Stats      StatsSnapshot
	ReadBytes  int64
	WriteBytes int64

	Err error
}

// Failed reports whether the combination's run failed.
func (r *Report) Failed() bool {
	return r.Err != nil
}

// Bandwidth returns the achieved global-memory bandwidth in bytes per
// second, derived from the fixed byte counters and the mean iteration
// time.
func (r *Report) Bandwidth() float64 {
	if r.Stats.Mean <= 0 {
		return 0
	}
	return float64(r.ReadBytes+r.WriteBytes) / r.Stats.Mean.Seconds()
}

// Label renders the combination's parameters for logs, axes in a
// stable order.
func (r *Report) Label() string {
	var parts []string
	if r.ElementType != "" {
		parts = append(parts, "T="+r.ElementType)
	}
	names := make([]string, 0, len(r.Int64Params))
	for name := range r.Int64Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, r.Int64Params[name]))
	}
	names = names[:0]
	for name := range r.Float64Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%g", name, r.Float64Params[name]))
	}
	return fmt.Sprintf("%s [%s]", r.Benchmark, strings.Join(parts, " "))
}

// Runner executes benchmarks combination by combination. Combinations
// are independent: each gets a fresh State and a fresh stream, and a
// failure is recorded in that combination's report without touching
// its siblings. Nothing is ever retried.
type Runner struct {
	Policy MeasurePolicy
	Logger *log.Logger
}

// NewRunner creates a runner with the default measurement policy.
func NewRunner() *Runner {
	return &Runner{Policy: DefaultMeasurePolicy()}
}

// Run executes every parameter combination of the benchmark and returns
// one report per combination, in axis order.
func (r *Runner) Run(ctx context.Context, b *Benchmark) []Report {
	combos := b.combinations()
	reports := make([]Report, 0, len(combos))
	for _, c := range combos {
		rep := r.runCombination(ctx, b, c)
		if r.Logger != nil {
			if rep.Failed() {
				r.Logger.Printf("%s: FAILED: %v", rep.Label(), rep.Err)
			} else {
				r.Logger.Printf("%s: %d iters, mean %v, %.2f GB/s",
					rep.Label(), rep.Stats.Count, rep.Stats.Mean, rep.Bandwidth()/1e9)
			}
		}
		reports = append(reports, rep)
	}
	return reports
}

func (r *Runner) runCombination(ctx context.Context, b *Benchmark, c combination) Report {
	rep := Report{
		Benchmark:     b.name,
		Int64Params:   c.int64s,
		Float64Params: c.float64s,
	}
	if c.hasKind {
		rep.ElementType = c.kind.String()
	}

	st := stream.New()
	defer st.Close()

	state := newState(ctx, b.name, c, st, r.Policy)
	rep.Err = safeRun(b.fn, state)

	rep.Stats = state.stats.Snapshot()
	rep.ReadBytes = state.readBytes.Load()
	rep.WriteBytes = state.writeBytes.Load()
	return rep
}

// safeRun contains a combination's failure: a panic inside the
// benchmark body becomes an error on that combination's report instead
// of tearing down the whole run.
func safeRun(fn func(*State) error, state *State) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = verrors.NewInternalError(fmt.Sprintf("benchmark panicked: %v", rec), nil)
		}
	}()
	return fn(state)
}
