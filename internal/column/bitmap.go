package column

// Bitmap is a packed per-row validity channel. A set bit marks the row
// as valid (non-null). Null tracking is kept separate from the value
// storage itself; columns without any null tracking carry no Bitmap at
// all rather than an all-valid one.
type Bitmap struct {
	bits   []uint64
	length int
}

// NewBitmap creates a validity bitmap of the given length with every
// row initially valid.
func NewBitmap(length int) *Bitmap {
	if length < 0 {
		length = 0
	}
	numWords := (length + 63) / 64
	b := &Bitmap{
		bits:   make([]uint64, numWords),
		length: length,
	}
	for i := range b.bits {
		b.bits[i] = ^uint64(0)
	}
	// Clear the tail bits past length so CountValid stays exact.
	if rem := length % 64; rem != 0 && numWords > 0 {
		b.bits[numWords-1] = (uint64(1) << uint(rem)) - 1
	}
	if length == 0 {
		b.bits = b.bits[:0]
	}
	return b
}

// Len returns the number of rows tracked by the bitmap.
func (b *Bitmap) Len() int {
	return b.length
}

// Valid reports whether row i is valid (non-null).
func (b *Bitmap) Valid(i int) bool {
	if i < 0 || i >= b.length {
		return false
	}
	return b.bits[i/64]&(uint64(1)<<uint(i%64)) != 0
}

// SetValid marks row i valid or null.
func (b *Bitmap) SetValid(i int, valid bool) {
	if i < 0 || i >= b.length {
		return
	}
	mask := uint64(1) << uint(i%64)
	if valid {
		b.bits[i/64] |= mask
	} else {
		b.bits[i/64] &^= mask
	}
}

// CountValid returns the number of valid rows.
func (b *Bitmap) CountValid() int {
	count := 0
	for i := 0; i < b.length; i++ {
		if b.bits[i/64]&(uint64(1)<<uint(i%64)) != 0 {
			count++
		}
	}
	return count
}

// CountNull returns the number of null rows.
func (b *Bitmap) CountNull() int {
	return b.length - b.CountValid()
}
