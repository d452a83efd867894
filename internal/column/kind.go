// Package column provides the in-memory columnar value model for the
// benchmark harness: typed fixed-length columns with optional validity
// bitmaps, tables of columns, and the memory-traffic accounting derived
// from their shapes.
package column

import "fmt"

// Kind identifies the element type of a column. The set is closed:
// benchmark variants dispatch over these kinds at setup time rather
// than through open-ended dynamic dispatch.
type Kind int

const (
	Int32 Kind = iota
	Int64
	Float32
	Float64
)

// ByteWidth returns the size in bytes of one element of this kind.
func (k Kind) ByteWidth() int64 {
	switch k {
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	}
	return 0
}

// String returns the lowercase type name used in reports and axis labels.
func (k Kind) String() string {
	switch k {
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind converts a type name string to a Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "int32":
		return Int32, nil
	case "int64":
		return Int64, nil
	case "float32":
		return Float32, nil
	case "float64":
		return Float64, nil
	}
	return 0, fmt.Errorf("unknown element kind: %s", name)
}

// AllKinds returns the full closed set of element kinds.
func AllKinds() []Kind {
	return []Kind{Int32, Int64, Float32, Float64}
}
