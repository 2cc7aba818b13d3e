package table

import "fmt"

// Mark is a cursor into a Table: either at a row or at the end sentinel.
// Marks are plain values; copies move independently.
type Mark struct {
	t *Table
	r *row
}

// Table returns the table the mark points into.
func (m Mark) Table() *Table { return m.t }

// AtEnd reports whether m is the end mark.
func (m Mark) AtEnd() bool {
	return m.t != nil && m.r == &m.t.root
}

// Equal reports whether both marks are on the same table and position.
func (m Mark) Equal(o Mark) bool {
	return m.t == o.t && m.r == o.r
}

// Move shifts m by delta rows; negative moves backward. Moving before the
// first row or past the end fails and leaves m unchanged.
func (m *Mark) Move(delta int) error {
	if m.t == nil {
		return ErrInvalidMark
	}
	if err := m.t.check(*m); err != nil {
		return err
	}

	end := &m.t.root
	r := m.r
	for i := 0; i < delta; i++ {
		if r == end {
			return fmt.Errorf("%w: +%d", ErrOutOfRange, delta)
		}
		r = r.next
	}
	for i := 0; i > delta; i-- {
		if r.prev == end {
			return fmt.Errorf("%w: %d", ErrOutOfRange, delta)
		}
		r = r.prev
	}
	m.r = r
	return nil
}

// Position returns the zero-based row index of m; the end mark reports the
// row count.
func (m Mark) Position() int {
	if m.t == nil {
		return -1
	}
	i := 0
	for r := m.t.root.next; r != m.r && r != &m.t.root; r = r.next {
		i++
	}
	return i
}
