package groupby

import (
	"github.com/colbench/colbench/internal/column"
)

// aggregateColumn computes one aggregation kind over the values column,
// producing one entry per group. Null values are skipped by every kind;
// a group whose values are all null yields a null result entry (COUNT
// excepted, which yields zero and is never null).
func aggregateColumn(values *column.Column, kind Kind, groupOf []int32, numGroups int) *column.Column {
	switch kind {
	case Count:
		return aggregateCount(values, groupOf, numGroups)
	case Sum:
		sums, seen := sumGroups(values, groupOf, numGroups)
		return column.NewFloat64(sums, validityFromSeen(seen, values.Validity() != nil))
	case Mean:
		return aggregateMean(values, groupOf, numGroups)
	case Min:
		return aggregateExtreme(values, groupOf, numGroups, false)
	case Max:
		return aggregateExtreme(values, groupOf, numGroups, true)
	}
	return nil
}

func aggregateCount(values *column.Column, groupOf []int32, numGroups int) *column.Column {
	counts := make([]int64, numGroups)
	for row := 0; row < values.Len(); row++ {
		if values.Valid(row) {
			counts[groupOf[row]]++
		}
	}
	return column.NewInt64(counts, nil)
}

func aggregateMean(values *column.Column, groupOf []int32, numGroups int) *column.Column {
	sums, seen := sumGroups(values, groupOf, numGroups)
	counts := make([]int64, numGroups)
	for row := 0; row < values.Len(); row++ {
		if values.Valid(row) {
			counts[groupOf[row]]++
		}
	}
	means := make([]float64, numGroups)
	for g := range means {
		if counts[g] > 0 {
			means[g] = sums[g] / float64(counts[g])
		}
	}
	return column.NewFloat64(means, validityFromSeen(seen, values.Validity() != nil))
}

// sumGroups accumulates per-group sums in float64 and reports which
// groups saw at least one non-null value.
func sumGroups(values *column.Column, groupOf []int32, numGroups int) ([]float64, []bool) {
	sums := make([]float64, numGroups)
	seen := make([]bool, numGroups)
	accumulate := func(row int, v float64) {
		g := groupOf[row]
		sums[g] += v
		seen[g] = true
	}

	switch values.Kind() {
	case column.Int32:
		for row, v := range values.Int32s() {
			if values.Valid(row) {
				accumulate(row, float64(v))
			}
		}
	case column.Int64:
		for row, v := range values.Int64s() {
			if values.Valid(row) {
				accumulate(row, float64(v))
			}
		}
	case column.Float32:
		for row, v := range values.Float32s() {
			if values.Valid(row) {
				accumulate(row, float64(v))
			}
		}
	case column.Float64:
		for row, v := range values.Float64s() {
			if values.Valid(row) {
				accumulate(row, v)
			}
		}
	}
	return sums, seen
}

// aggregateExtreme computes grouped MIN or MAX in the values column's
// own element type, so no precision is lost to a wider accumulator.
func aggregateExtreme(values *column.Column, groupOf []int32, numGroups int, max bool) *column.Column {
	hasNulls := values.Validity() != nil

	switch values.Kind() {
	case column.Int32:
		out, seen := reduceExtreme(values.Int32s(), values, groupOf, numGroups, max)
		return column.NewInt32(out, validityFromSeen(seen, hasNulls))
	case column.Int64:
		out, seen := reduceExtreme(values.Int64s(), values, groupOf, numGroups, max)
		return column.NewInt64(out, validityFromSeen(seen, hasNulls))
	case column.Float32:
		out, seen := reduceExtreme(values.Float32s(), values, groupOf, numGroups, max)
		return column.NewFloat32(out, validityFromSeen(seen, hasNulls))
	case column.Float64:
		out, seen := reduceExtreme(values.Float64s(), values, groupOf, numGroups, max)
		return column.NewFloat64(out, validityFromSeen(seen, hasNulls))
	}
	return nil
}

type element interface {
	~int32 | ~int64 | ~float32 | ~float64
}

func reduceExtreme[T element](buf []T, values *column.Column, groupOf []int32, numGroups int, max bool) ([]T, []bool) {
	out := make([]T, numGroups)
	seen := make([]bool, numGroups)
	for row, v := range buf {
		if !values.Valid(row) {
			continue
		}
		g := groupOf[row]
		if !seen[g] {
			out[g] = v
			seen[g] = true
			continue
		}
		if max {
			if v > out[g] {
				out[g] = v
			}
		} else if v < out[g] {
			out[g] = v
		}
	}
	return out, seen
}

// validityFromSeen builds a result validity bitmap marking groups that
// never saw a non-null value. When the input carried no null tracking,
// every group has at least one value and the result carries none either.
func validityFromSeen(seen []bool, hasNulls bool) *column.Bitmap {
	if !hasNulls {
		return nil
	}
	bm := column.NewBitmap(len(seen))
	for g, s := range seen {
		if !s {
			bm.SetValid(g, false)
		}
	}
	return bm
}
