package groupby

import (
	"encoding/binary"
	"math"

	"github.com/spaolacci/murmur3"

	"github.com/colbench/colbench/internal/column"
)

// cellBytes is the encoded size of one key cell in the row hash input:
// a validity byte followed by the value's 8-byte bit pattern.
const cellBytes = 9

// rowHash computes a murmur3 hash over the encoded cells of one row of
// the key table. buf is caller-owned scratch of at least
// NumColumns*cellBytes bytes so the per-row hash allocates nothing.
func rowHash(keys *column.Table, row int, buf []byte) uint64 {
	n := keys.NumColumns() * cellBytes
	for i := 0; i < keys.NumColumns(); i++ {
		encodeCell(keys.Column(i), row, buf[i*cellBytes:])
	}
	return murmur3.Sum64(buf[:n])
}

// encodeCell writes the validity byte and value bits of one cell.
// Null cells encode a zero value so equal-null rows hash equally.
func encodeCell(c *column.Column, row int, dst []byte) {
	if !c.Valid(row) {
		dst[0] = 0
		binary.LittleEndian.PutUint64(dst[1:], 0)
		return
	}
	dst[0] = 1
	binary.LittleEndian.PutUint64(dst[1:], cellBits(c, row))
}

// cellBits returns the canonical 8-byte bit pattern of a cell value.
func cellBits(c *column.Column, row int) uint64 {
	switch c.Kind() {
	case column.Int32:
		return uint64(uint32(c.Int32s()[row]))
	case column.Int64:
		return uint64(c.Int64s()[row])
	case column.Float32:
		return uint64(math.Float32bits(c.Float32s()[row]))
	case column.Float64:
		return math.Float64bits(c.Float64s()[row])
	}
	return 0
}

// rowsEqual reports whether two rows of the key table hold identical
// key tuples. Nulls compare equal to nulls, so all-null tuples form a
// single group.
func rowsEqual(keys *column.Table, a, b int) bool {
	for i := 0; i < keys.NumColumns(); i++ {
		c := keys.Column(i)
		av, bv := c.Valid(a), c.Valid(b)
		if av != bv {
			return false
		}
		if !av {
			continue
		}
		if cellBits(c, a) != cellBits(c, b) {
			return false
		}
	}
	return true
}
