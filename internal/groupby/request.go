// Package groupby implements the grouped-aggregation engine the
// benchmark harness measures: hash-based grouping over a multi-column
// key table with a closed set of aggregation kinds.
package groupby

import (
	"fmt"

	"github.com/colbench/colbench/internal/column"
	verrors "github.com/colbench/colbench/internal/errors"
)

// Kind identifies an aggregation function.
type Kind int

const (
	Count Kind = iota
	Sum
	Min
	Max
	Mean
)

// String returns the aggregation name.
func (k Kind) String() string {
	switch k {
	case Count:
		return "count"
	case Sum:
		return "sum"
	case Min:
		return "min"
	case Max:
		return "max"
	case Mean:
		return "mean"
	}
	return fmt.Sprintf("aggregation(%d)", int(k))
}

func (k Kind) valid() bool {
	switch k {
	case Count, Sum, Min, Max, Mean:
		return true
	}
	return false
}

// Request pairs a values column with an ordered list of aggregation
// kinds to compute over it per group. Order is preserved in the result
// even though it affects nothing observable for a single kind.
type Request struct {
	Values       *column.Column
	Aggregations []Kind
}

// NewRequest builds a request for the given kinds in order.
func NewRequest(values *column.Column, kinds ...Kind) Request {
	return Request{Values: values, Aggregations: kinds}
}

// NewMaxRequest builds the single-MAX request the groupby_max benchmark
// issues.
func NewMaxRequest(values *column.Column) Request {
	return NewRequest(values, Max)
}

// ReplicateKey builds an n-column grouping key table from one base
// column repeated at every position. This stresses multi-column key
// comparison while keeping key generation at a single column's cost;
// it is a deliberate benchmark shortcut, not a general multi-column
// key abstraction.
func ReplicateKey(key *column.Column, n int) (*column.Table, error) {
	if key == nil {
		return nil, verrors.NewInvalidParameter("key column is nil")
	}
	if n <= 0 {
		return nil, verrors.NewInvalidParameter(
			fmt.Sprintf("key replication count %d must be positive", n))
	}
	cols := make([]*column.Column, n)
	for i := range cols {
		cols[i] = key
	}
	return column.NewTable(cols...)
}
