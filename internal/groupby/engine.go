package groupby

import (
	"context"
	"fmt"

	"github.com/colbench/colbench/internal/column"
	verrors "github.com/colbench/colbench/internal/errors"
	"github.com/colbench/colbench/internal/stream"
)

// Engine groups rows of a fixed key table and computes aggregations
// over requested value columns. An engine is constructed once per
// parameter combination and invoked repeatedly against the same inputs.
type Engine struct {
	keys *column.Table
}

// NewEngine creates an engine over the given grouping key table.
func NewEngine(keys *column.Table) (*Engine, error) {
	if keys == nil || keys.NumColumns() == 0 {
		return nil, verrors.NewInvalidParameter("grouping key table is empty")
	}
	return &Engine{keys: keys}, nil
}

// Result holds the outcome of one aggregate call: the grouped key table
// (one row per distinct key combination) and, per request, one result
// column per aggregation kind in request order.
type Result struct {
	GroupedKeys *column.Table
	Aggregates  [][]*column.Column
}

// NumGroups returns the number of distinct key combinations realized.
func (r *Result) NumGroups() int {
	return r.GroupedKeys.NumRows()
}

// RequiredBytes sums the accounting size of the grouped keys and every
// aggregate column uniformly.
func (r *Result) RequiredBytes() int64 {
	total := r.GroupedKeys.RequiredBytes()
	for _, cols := range r.Aggregates {
		for _, c := range cols {
			total += c.RequiredBytes()
		}
	}
	return total
}

// Aggregate synchronously computes all requested aggregations. The work
// runs on the supplied stream (inline when st is nil) and has completed
// by the time Aggregate returns. The engine's own state never changes,
// so repeated calls against the same inputs produce identical groups.
func (e *Engine) Aggregate(ctx context.Context, st *stream.Stream, requests []Request) (*Result, error) {
	if len(requests) == 0 {
		return nil, verrors.NewInvalidParameter("no aggregation requests")
	}
	for i, req := range requests {
		if req.Values == nil {
			return nil, verrors.NewInvalidParameter(fmt.Sprintf("request %d has no values column", i))
		}
		if req.Values.Len() != e.keys.NumRows() {
			return nil, verrors.NewInvalidParameter(fmt.Sprintf(
				"request %d has %d rows, key table has %d", i, req.Values.Len(), e.keys.NumRows()))
		}
		if len(req.Aggregations) == 0 {
			return nil, verrors.NewInvalidParameter(fmt.Sprintf("request %d has no aggregations", i))
		}
		for _, k := range req.Aggregations {
			if !k.valid() {
				return nil, verrors.NewInvalidParameter(fmt.Sprintf("request %d: unknown aggregation %v", i, k))
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, verrors.NewEngineError("aggregation canceled", err)
	}

	var res *Result
	var err error
	work := func() {
		res, err = e.aggregate(requests)
	}
	if st != nil {
		st.Submit(work)
		st.Synchronize()
	} else {
		work()
	}
	return res, err
}

func (e *Engine) aggregate(requests []Request) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = verrors.NewEngineError(fmt.Sprintf("aggregation failed: %v", r), nil)
		}
	}()

	groupOf, reps := e.buildGroups()

	keyCols := make([]*column.Column, e.keys.NumColumns())
	for i := range keyCols {
		keyCols[i] = gather(e.keys.Column(i), reps)
	}
	groupedKeys, err := column.NewTable(keyCols...)
	if err != nil {
		return nil, verrors.NewEngineError("grouped key table", err)
	}

	aggregates := make([][]*column.Column, len(requests))
	for i, req := range requests {
		cols := make([]*column.Column, len(req.Aggregations))
		for j, kind := range req.Aggregations {
			cols[j] = aggregateColumn(req.Values, kind, groupOf, len(reps))
		}
		aggregates[i] = cols
	}

	return &Result{GroupedKeys: groupedKeys, Aggregates: aggregates}, nil
}

// buildGroups assigns every key row to a group. Rows hash by their
// encoded key tuple; hash buckets are collision-checked with full row
// equality against each group's representative row.
func (e *Engine) buildGroups() (groupOf []int32, reps []int32) {
	rows := e.keys.NumRows()
	groupOf = make([]int32, rows)
	buckets := make(map[uint64][]int32, rows/4+1)
	buf := make([]byte, e.keys.NumColumns()*cellBytes)

	for row := 0; row < rows; row++ {
		h := rowHash(e.keys, row, buf)
		group := int32(-1)
		for _, g := range buckets[h] {
			if rowsEqual(e.keys, int(reps[g]), row) {
				group = g
				break
			}
		}
		if group < 0 {
			group = int32(len(reps))
			reps = append(reps, int32(row))
			buckets[h] = append(buckets[h], group)
		}
		groupOf[row] = group
	}
	return groupOf, reps
}

// gather builds a new column holding src's values at the given rows.
func gather(src *column.Column, rows []int32) *column.Column {
	var validity *column.Bitmap
	if src.Validity() != nil {
		validity = column.NewBitmap(len(rows))
		for i, row := range rows {
			if !src.Valid(int(row)) {
				validity.SetValid(i, false)
			}
		}
	}

	switch src.Kind() {
	case column.Int32:
		out := make([]int32, len(rows))
		for i, row := range rows {
			out[i] = src.Int32s()[row]
		}
		return column.NewInt32(out, validity)
	case column.Int64:
		out := make([]int64, len(rows))
		for i, row := range rows {
			out[i] = src.Int64s()[row]
		}
		return column.NewInt64(out, validity)
	case column.Float32:
		out := make([]float32, len(rows))
		for i, row := range rows {
			out[i] = src.Float32s()[row]
		}
		return column.NewFloat32(out, validity)
	case column.Float64:
		out := make([]float64, len(rows))
		for i, row := range rows {
			out[i] = src.Float64s()[row]
		}
		return column.NewFloat64(out, validity)
	}
	return nil
}
