// Package table implements the ordered row store behind accounts, journals
// and transactions.
//
// A Table has a fixed schema of column kinds and keeps its rows in a doubly
// linked list, so inserting or dropping a row never disturbs a Mark that points
// somewhere else. A Mark is a cursor at a row or at the end of the table.
package table

import (
	"fmt"

	"github.com/cleared-dev/ledgerbook/internal/bignum"
)

// MaxColumns is the widest schema a table accepts.
const MaxColumns = 100

type row struct {
	prev, next *row
	owner      *Table
	cells      []Cell
}

// Table is an ordered row store. The zero value is an empty table with no columns.
type Table struct {
	kinds []Kind
	root  row // sentinel; root.next is the first row, root.prev the last
	count int
}

// New returns an empty table with no columns.
func New() *Table {
	t := &Table{}
	t.lazyInit()
	return t
}

// NewWithColumns returns an empty table with the given schema.
func NewWithColumns(kinds ...Kind) (*Table, error) {
	t := New()
	if err := t.SetColumnTypes(kinds...); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) lazyInit() {
	if t.root.next == nil {
		t.root.next = &t.root
		t.root.prev = &t.root
	}
}

// SetColumnTypes replaces the schema. Any existing rows are cleared.
func (t *Table) SetColumnTypes(kinds ...Kind) error {
	if len(kinds) > MaxColumns {
		return fmt.Errorf("%w: %d > %d", ErrTooManyColumns, len(kinds), MaxColumns)
	}
	for i, k := range kinds {
		if !k.Valid() {
			return fmt.Errorf("column %d: %w", i, ErrInvalidKind)
		}
	}
	t.clear()
	t.kinds = append([]Kind(nil), kinds...)
	return nil
}

func (t *Table) clear() {
	t.lazyInit()
	for r := t.root.next; r != &t.root; {
		next := r.next
		r.prev, r.next, r.owner = nil, nil, nil
		r = next
	}
	t.root.next = &t.root
	t.root.prev = &t.root
	t.count = 0
}

// Columns returns a copy of the schema.
func (t *Table) Columns() []Kind {
	return append([]Kind(nil), t.kinds...)
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int { return len(t.kinds) }

// ColumnKind returns the kind of column i.
func (t *Table) ColumnKind(i int) (Kind, error) {
	if i < 0 || i >= len(t.kinds) {
		return 0, fmt.Errorf("%w: %d of %d", ErrColumnRange, i, len(t.kinds))
	}
	return t.kinds[i], nil
}

// CountRows returns the number of rows.
func (t *Table) CountRows() int { return t.count }

// Begin returns a mark at the first row, or at the end of an empty table.
func (t *Table) Begin() Mark {
	t.lazyInit()
	return Mark{t: t, r: t.root.next}
}

// End returns the mark one past the last row.
func (t *Table) End() Mark {
	t.lazyInit()
	return Mark{t: t, r: &t.root}
}

// AddRowBefore inserts a row of zero values before m and moves m onto it.
func (t *Table) AddRowBefore(m *Mark) error {
	if err := t.check(*m); err != nil {
		return err
	}
	if len(t.kinds) == 0 {
		return ErrNoColumns
	}

	cells := make([]Cell, len(t.kinds))
	for i, k := range t.kinds {
		cells[i] = zeroCell(k)
	}
	r := &row{owner: t, cells: cells}
	at := m.r
	r.prev = at.prev
	r.next = at
	at.prev.next = r
	at.prev = r
	t.count++

	m.r = r
	return nil
}

// AppendRow adds a row at the end and returns a mark on it.
func (t *Table) AppendRow() (Mark, error) {
	m := t.End()
	if err := t.AddRowBefore(&m); err != nil {
		return Mark{}, err
	}
	return m, nil
}

// DropRowAt removes the row at m. The mark moves to the previous row, or to
// the beginning when the first row was dropped.
func (t *Table) DropRowAt(m *Mark) error {
	if err := t.check(*m); err != nil {
		return err
	}
	r := m.r
	if r == &t.root {
		return ErrAtEnd
	}

	prev := r.prev
	prev.next = r.next
	r.next.prev = prev
	r.prev, r.next, r.owner = nil, nil, nil
	t.count--

	if prev == &t.root {
		m.r = t.root.next
	} else {
		m.r = prev
	}
	return nil
}

// Fetch returns a copy of the cell at column col.
func (t *Table) Fetch(m Mark, col int) (Cell, error) {
	c, err := t.cell(m, col)
	if err != nil {
		return Cell{}, err
	}
	return *c, nil
}

// Put stores c at column col; its kind must match the column.
func (t *Table) Put(m Mark, col int, c Cell) error {
	dst, err := t.cell(m, col)
	if err != nil {
		return err
	}
	if dst.kind != c.kind {
		return fmt.Errorf("column %d: %w: want %s, have %s", col, ErrKindMismatch, dst.kind, c.kind)
	}
	*dst = c
	return nil
}

// FetchID returns an Id cell.
func (t *Table) FetchID(m Mark, col int) (int64, error) {
	c, err := t.typed(m, col, KindID)
	if err != nil {
		return 0, err
	}
	return c.id, nil
}

// PutID stores an Id cell.
func (t *Table) PutID(m Mark, col int, v int64) error {
	c, err := t.typed(m, col, KindID)
	if err != nil {
		return err
	}
	c.id = v
	return nil
}

// FetchIndex returns an Id cell as a one-based index.
func (t *Table) FetchIndex(m Mark, col int) (int64, error) {
	v, err := t.FetchID(m, col)
	if err != nil {
		return 0, err
	}
	return v + 1, nil
}

// PutIndex stores a one-based index into an Id cell.
func (t *Table) PutIndex(m Mark, col int, idx int64) error {
	return t.PutID(m, col, idx-1)
}

// FetchDecimal returns a Decimal cell.
func (t *Table) FetchDecimal(m Mark, col int) (bignum.Number, error) {
	c, err := t.typed(m, col, KindDecimal)
	if err != nil {
		return bignum.Number{}, err
	}
	return c.num, nil
}

// PutDecimal stores a Decimal cell.
func (t *Table) PutDecimal(m Mark, col int, n bignum.Number) error {
	c, err := t.typed(m, col, KindDecimal)
	if err != nil {
		return err
	}
	c.num = n
	return nil
}

// FetchString returns a UString cell and whether it is non-null.
func (t *Table) FetchString(m Mark, col int) (string, bool, error) {
	c, err := t.typed(m, col, KindString)
	if err != nil {
		return "", false, err
	}
	return c.str, c.valid, nil
}

// PutString stores a non-null UString cell.
func (t *Table) PutString(m Mark, col int, s string) error {
	c, err := t.typed(m, col, KindString)
	if err != nil {
		return err
	}
	c.str = s
	c.valid = true
	return nil
}

// PutNull sets a UString cell to null.
func (t *Table) PutNull(m Mark, col int) error {
	c, err := t.typed(m, col, KindString)
	if err != nil {
		return err
	}
	c.str = ""
	c.valid = false
	return nil
}

// Row returns a copy of the cells at m.
func (t *Table) Row(m Mark) ([]Cell, error) {
	if err := t.check(m); err != nil {
		return nil, err
	}
	if m.r == &t.root {
		return nil, ErrAtEnd
	}
	return append([]Cell(nil), m.r.cells...), nil
}

// Each calls fn with a mark on every row in order until fn returns an error.
func (t *Table) Each(fn func(m Mark) error) error {
	t.lazyInit()
	for r := t.root.next; r != &t.root; r = r.next {
		if err := fn(Mark{t: t, r: r}); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	c := New()
	c.kinds = append([]Kind(nil), t.kinds...)
	t.lazyInit()
	for r := t.root.next; r != &t.root; r = r.next {
		nr := &row{owner: c, cells: append([]Cell(nil), r.cells...)}
		nr.prev = c.root.prev
		nr.next = &c.root
		c.root.prev.next = nr
		c.root.prev = nr
		c.count++
	}
	return c
}

// Equal reports whether a and b have the same schema and the same cells in
// the same order.
func Equal(a, b *Table) bool {
	if a.count != b.count || len(a.kinds) != len(b.kinds) {
		return false
	}
	for i := range a.kinds {
		if a.kinds[i] != b.kinds[i] {
			return false
		}
	}
	a.lazyInit()
	b.lazyInit()
	for ra, rb := a.root.next, b.root.next; ra != &a.root; ra, rb = ra.next, rb.next {
		for i := range ra.cells {
			if !ra.cells[i].Equal(rb.cells[i]) {
				return false
			}
		}
	}
	return true
}

func (t *Table) check(m Mark) error {
	if m.t != t || m.r == nil {
		return ErrInvalidMark
	}
	if m.r != &t.root && m.r.owner != t {
		return ErrInvalidMark
	}
	return nil
}

func (t *Table) cell(m Mark, col int) (*Cell, error) {
	if err := t.check(m); err != nil {
		return nil, err
	}
	if m.r == &t.root {
		return nil, ErrAtEnd
	}
	if col < 0 || col >= len(t.kinds) {
		return nil, fmt.Errorf("%w: %d of %d", ErrColumnRange, col, len(t.kinds))
	}
	return &m.r.cells[col], nil
}

func (t *Table) typed(m Mark, col int, want Kind) (*Cell, error) {
	c, err := t.cell(m, col)
	if err != nil {
		return nil, err
	}
	if t.kinds[col] != want {
		return nil, fmt.Errorf("column %d: %w: want %s, have %s", col, ErrKindMismatch, want, t.kinds[col])
	}
	return c, nil
}
