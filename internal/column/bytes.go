package column

// RequiredBytes computes the total bytes logically occupied by the
// column's buffers: row_count x element width for the value buffer,
// plus ceil(row_count / 8) for the validity buffer only when the column
// has one. This feeds the global-memory read/write accounting of the
// benchmark driver.
func (c *Column) RequiredBytes() int64 {
	total := int64(c.length) * c.kind.ByteWidth()
	if c.validity != nil {
		total += validityBytes(c.length)
	}
	return total
}

// RequiredBytes sums RequiredBytes over all constituent columns. A
// column repeated at several table positions is counted once per
// position, matching the bytes an engine touches when comparing
// multi-column keys.
func (t *Table) RequiredBytes() int64 {
	var total int64
	for _, c := range t.cols {
		total += c.RequiredBytes()
	}
	return total
}

// validityBytes is the accounting size of a validity channel:
// one bit per row, rounded up to whole bytes.
func validityBytes(rows int) int64 {
	return (int64(rows) + 7) / 8
}
