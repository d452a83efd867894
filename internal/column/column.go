package column

import (
	"fmt"

	verrors "github.com/colbench/colbench/internal/errors"
)

// Column is an owned, typed, fixed-length sequence of values with an
// optional validity bitmap. Exactly one of the typed buffers is set,
// matching the column's kind. Columns are immutable by convention once
// produced; they are owned solely by the benchmark iteration that
// created them.
type Column struct {
	kind     Kind
	length   int
	int32s   []int32
	int64s   []int64
	float32s []float32
	float64s []float64
	validity *Bitmap
}

// NewInt32 wraps an int32 buffer as a column. validity may be nil for
// columns with no null tracking.
func NewInt32(values []int32, validity *Bitmap) *Column {
	return &Column{kind: Int32, length: len(values), int32s: values, validity: validity}
}

// NewInt64 wraps an int64 buffer as a column.
func NewInt64(values []int64, validity *Bitmap) *Column {
	return &Column{kind: Int64, length: len(values), int64s: values, validity: validity}
}

// NewFloat32 wraps a float32 buffer as a column.
func NewFloat32(values []float32, validity *Bitmap) *Column {
	return &Column{kind: Float32, length: len(values), float32s: values, validity: validity}
}

// NewFloat64 wraps a float64 buffer as a column.
func NewFloat64(values []float64, validity *Bitmap) *Column {
	return &Column{kind: Float64, length: len(values), float64s: values, validity: validity}
}

// Kind returns the column's element kind.
func (c *Column) Kind() Kind {
	return c.kind
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	return c.length
}

// Validity returns the validity bitmap, or nil when the column carries
// no null tracking at all.
func (c *Column) Validity() *Bitmap {
	return c.validity
}

// Valid reports whether row i is non-null. Columns without a validity
// bitmap have only valid rows.
func (c *Column) Valid(i int) bool {
	if c.validity == nil {
		return i >= 0 && i < c.length
	}
	return c.validity.Valid(i)
}

// NullCount returns the number of null rows in the column.
func (c *Column) NullCount() int {
	if c.validity == nil {
		return 0
	}
	return c.validity.CountNull()
}

// Int32s returns the underlying buffer of an Int32 column.
func (c *Column) Int32s() []int32 { return c.int32s }

// Int64s returns the underlying buffer of an Int64 column.
func (c *Column) Int64s() []int64 { return c.int64s }

// Float32s returns the underlying buffer of a Float32 column.
func (c *Column) Float32s() []float32 { return c.float32s }

// Float64s returns the underlying buffer of a Float64 column.
func (c *Column) Float64s() []float64 { return c.float64s }

// Table is an ordered collection of columns of equal length, used
// jointly as a grouping key or as a result row set. The same column may
// appear at more than one position.
type Table struct {
	cols []*Column
}

// NewTable assembles columns into a table, validating equal lengths.
func NewTable(cols ...*Column) (*Table, error) {
	if len(cols) == 0 {
		return nil, verrors.NewInvalidParameter("table requires at least one column")
	}
	rows := cols[0].Len()
	for i, c := range cols {
		if c == nil {
			return nil, verrors.NewInvalidParameter(fmt.Sprintf("table column %d is nil", i))
		}
		if c.Len() != rows {
			return nil, verrors.NewInvalidParameter(
				fmt.Sprintf("table column %d has %d rows, expected %d", i, c.Len(), rows))
		}
	}
	return &Table{cols: cols}, nil
}

// NumColumns returns the number of column positions in the table.
func (t *Table) NumColumns() int {
	return len(t.cols)
}

// NumRows returns the row count shared by all columns.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// Column returns the column at position i.
func (t *Table) Column(i int) *Column {
	return t.cols[i]
}

// Columns returns the ordered column slice.
func (t *Table) Columns() []*Column {
	return t.cols
}
