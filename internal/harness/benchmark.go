// Package harness drives parameterized micro-benchmarks: named
// benchmarks declare parameter axes, the runner expands the axes into
// independent combinations, and each combination executes a timed
// measurement loop with memory-traffic accounting.
package harness

import (
	"github.com/colbench/colbench/internal/column"
)

// Int64Axis is a named integer parameter axis.
type Int64Axis struct {
	Name   string
	Values []int64
}

// Float64Axis is a named floating-point parameter axis.
type Float64Axis struct {
	Name   string
	Values []float64
}

// Benchmark is a named, axis-parameterized measurement. Fn runs once
// per combination of all axis values against a fresh State.
type Benchmark struct {
	name        string
	int64Axes   []Int64Axis
	float64Axes []Float64Axis
	typeAxis    []column.Kind
	fn          func(*State) error
}

// New creates a benchmark with the given name and body.
func New(name string, fn func(*State) error) *Benchmark {
	return &Benchmark{name: name, fn: fn}
}

// Name returns the benchmark's registered name.
func (b *Benchmark) Name() string {
	return b.name
}

// AddInt64Axis appends an integer axis.
func (b *Benchmark) AddInt64Axis(name string, values []int64) *Benchmark {
	b.int64Axes = append(b.int64Axes, Int64Axis{Name: name, Values: values})
	return b
}

// AddInt64PowerOfTwoAxis appends an integer axis whose values are two
// raised to each given exponent.
func (b *Benchmark) AddInt64PowerOfTwoAxis(name string, exponents []int) *Benchmark {
	values := make([]int64, len(exponents))
	for i, e := range exponents {
		values[i] = int64(1) << uint(e)
	}
	return b.AddInt64Axis(name, values)
}

// AddFloat64Axis appends a floating-point axis.
func (b *Benchmark) AddFloat64Axis(name string, values []float64) *Benchmark {
	b.float64Axes = append(b.float64Axes, Float64Axis{Name: name, Values: values})
	return b
}

// SetTypeAxis sets the element-type axis. The benchmark body reads the
// current kind through State.Kind.
func (b *Benchmark) SetTypeAxis(kinds []column.Kind) *Benchmark {
	b.typeAxis = kinds
	return b
}

// combination is one point in the cartesian product of all axes.
type combination struct {
	int64s   map[string]int64
	float64s map[string]float64
	kind     column.Kind
	hasKind  bool
}

// combinations expands the axes into every parameter combination, type
// axis outermost, then integer axes, then floating-point axes, each in
// declaration order.
func (b *Benchmark) combinations() []combination {
	combos := []combination{{
		int64s:   map[string]int64{},
		float64s: map[string]float64{},
	}}

	if len(b.typeAxis) > 0 {
		var next []combination
		for _, kind := range b.typeAxis {
			for _, c := range combos {
				cc := c.clone()
				cc.kind = kind
				cc.hasKind = true
				next = append(next, cc)
			}
		}
		combos = next
	}

	for _, axis := range b.int64Axes {
		var next []combination
		for _, c := range combos {
			for _, v := range axis.Values {
				cc := c.clone()
				cc.int64s[axis.Name] = v
				next = append(next, cc)
			}
		}
		combos = next
	}

	for _, axis := range b.float64Axes {
		var next []combination
		for _, c := range combos {
			for _, v := range axis.Values {
				cc := c.clone()
				cc.float64s[axis.Name] = v
				next = append(next, cc)
			}
		}
		combos = next
	}

	return combos
}

func (c combination) clone() combination {
	cc := combination{
		int64s:   make(map[string]int64, len(c.int64s)),
		float64s: make(map[string]float64, len(c.float64s)),
		kind:     c.kind,
		hasKind:  c.hasKind,
	}
	for k, v := range c.int64s {
		cc.int64s[k] = v
	}
	for k, v := range c.float64s {
		cc.float64s[k] = v
	}
	return cc
}
