package colgen

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/colbench/colbench/internal/column"
	verrors "github.com/colbench/colbench/internal/errors"
	"github.com/colbench/colbench/internal/stream"
)

// maxColumnBytes caps a single generated value buffer. Requests past
// this are rejected as allocation failures before make() can take the
// process down.
const maxColumnBytes = int64(1) << 36 // 64 GiB

// Generate produces a column of the requested length whose values are
// drawn from the profile's distribution. The fill work is submitted to
// the stream and synchronized before returning, so the caller owns a
// fully materialized column.
func Generate(st *stream.Stream, p Profile, rows int) (*column.Column, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if rows < 0 {
		return nil, verrors.NewInvalidParameter(
			fmt.Sprintf("requested length %d is negative", rows))
	}
	if int64(rows)*p.Kind.ByteWidth() > maxColumnBytes {
		return nil, verrors.NewAllocationError(
			fmt.Sprintf("column of %d %v rows exceeds allocation limit", rows, p.Kind))
	}

	var col *column.Column
	fill := func() {
		col = generate(p, rows)
	}
	if st != nil {
		st.Submit(fill)
		st.Synchronize()
	} else {
		fill()
	}
	return col, nil
}

// generate runs on the stream. Validation has already happened.
func generate(p Profile, rows int) *column.Column {
	r := rand.New(rand.NewSource(p.Seed))

	draw := drawFunc(r, p)

	var validity *column.Bitmap
	if p.NullProbability > 0 {
		validity = column.NewBitmap(rows)
	}

	// Values are drawn for every row, null or not, so the value stream
	// is identical across null-probability settings with the same seed.
	switch p.Kind {
	case column.Int32:
		values := make([]int32, rows)
		for i := range values {
			values[i] = int32(math.Round(draw()))
		}
		markNulls(r, p, validity)
		return column.NewInt32(values, validity)
	case column.Int64:
		values := make([]int64, rows)
		for i := range values {
			values[i] = int64(math.Round(draw()))
		}
		markNulls(r, p, validity)
		return column.NewInt64(values, validity)
	case column.Float32:
		values := make([]float32, rows)
		for i := range values {
			values[i] = float32(draw())
		}
		markNulls(r, p, validity)
		return column.NewFloat32(values, validity)
	case column.Float64:
		values := make([]float64, rows)
		for i := range values {
			values[i] = draw()
		}
		markNulls(r, p, validity)
		return column.NewFloat64(values, validity)
	}
	return nil
}

// drawFunc returns the per-row value source. A cardinality cap > 0
// pre-draws that many distinct values from the distribution and samples
// uniformly among them; cap = 0 leaves the raw range untouched.
func drawFunc(r *rand.Rand, p Profile) func() float64 {
	uniform := func() float64 {
		return p.Low + r.Float64()*(p.High-p.Low)
	}

	if p.CardinalityCap <= 0 {
		return uniform
	}

	domain := make([]float64, 0, p.CardinalityCap)
	seen := make(map[float64]struct{}, p.CardinalityCap)
	// The domain can genuinely hold fewer distinct values than the cap
	// (an integer kind over a narrow range); bound the attempts.
	attempts := p.CardinalityCap * 16
	for len(domain) < p.CardinalityCap && attempts > 0 {
		v := roundForKind(uniform(), p.Kind)
		attempts--
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		domain = append(domain, v)
	}
	return func() float64 {
		return domain[r.Intn(len(domain))]
	}
}

// markNulls clears validity bits with the profile's per-row null
// probability. No-op when null generation is disabled.
func markNulls(r *rand.Rand, p Profile, validity *column.Bitmap) {
	if validity == nil {
		return
	}
	for i := 0; i < validity.Len(); i++ {
		if r.Float64() < p.NullProbability {
			validity.SetValid(i, false)
		}
	}
}

// roundForKind collapses a drawn value onto the representable domain of
// the element kind, so the cardinality cap counts values an integer
// column can actually distinguish.
func roundForKind(v float64, kind column.Kind) float64 {
	switch kind {
	case column.Int32, column.Int64:
		return math.Round(v)
	}
	return v
}
