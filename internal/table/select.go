package table

import "fmt"

// Op is a comparison operator in a selection predicate.
type Op int

const (
	OpEq Op = iota
	OpLt
	OpGt
	OpNe
	OpGe
	OpLe
)

var opNames = [...]string{
	OpEq: "==",
	OpLt: "<",
	OpGt: ">",
	OpNe: "!=",
	OpGe: ">=",
	OpLe: "<=",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return fmt.Sprintf("op(%d)", int(o))
	}
	return opNames[o]
}

// ParseOp reads one of == < > != >= <=.
func ParseOp(s string) (Op, error) {
	for i, name := range opNames {
		if name == s {
			return Op(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadOperator, s)
}

func (o Op) holds(cmp int) bool {
	switch o {
	case OpEq:
		return cmp == 0
	case OpLt:
		return cmp < 0
	case OpGt:
		return cmp > 0
	case OpNe:
		return cmp != 0
	case OpGe:
		return cmp >= 0
	case OpLe:
		return cmp <= 0
	}
	return false
}

// Predicate compares one column against a literal read as Kind.
type Predicate struct {
	Kind    Kind
	Op      Op
	Column  int
	Literal string
}

// Direction selects scan order.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

type compiled struct {
	Predicate
	lit Cell
}

// Select visits every row of t matching all predicates, calling fn with a mark
// on the row. Forward scans first to last, Reverse last to first. When fn
// returns non-zero the scan stops and that value is returned. fn may drop the
// row it is given but no other.
//
// A row that fails a predicate is skipped. A predicate that cannot read its
// column aborts the scan with an error.
func Select(t *Table, preds []Predicate, dir Direction, fn func(m Mark) int) (int, error) {
	cs := make([]compiled, len(preds))
	for i, p := range preds {
		if p.Op < OpEq || p.Op > OpLe {
			return 0, fmt.Errorf("predicate %d: %w: %d", i, ErrBadOperator, int(p.Op))
		}
		lit, err := ParseCell(p.Kind, p.Literal)
		if err != nil {
			return 0, fmt.Errorf("predicate %d: %w: %w", i, ErrBadLiteral, err)
		}
		if p.Kind == KindString {
			lit = StringCell(p.Literal)
		}
		cs[i] = compiled{Predicate: p, lit: lit}
	}

	t.lazyInit()
	end := &t.root
	r := t.root.next
	if dir == Reverse {
		r = t.root.prev
	}
	for r != end {
		following := r.next
		if dir == Reverse {
			following = r.prev
		}

		m := Mark{t: t, r: r}
		ok, err := matches(t, m, cs)
		if err != nil {
			return 0, err
		}
		if ok {
			if rc := fn(m); rc != 0 {
				return rc, nil
			}
		}
		r = following
	}
	return 0, nil
}

func matches(t *Table, m Mark, cs []compiled) (bool, error) {
	for i, c := range cs {
		cell, err := t.Fetch(m, c.Column)
		if err != nil {
			return false, fmt.Errorf("predicate %d: %w", i, err)
		}
		if cell.kind != c.Kind {
			return false, fmt.Errorf("predicate %d: column %d: %w: want %s, have %s",
				i, c.Column, ErrKindMismatch, c.Kind, cell.kind)
		}
		if !c.Op.holds(compare(cell, c.lit)) {
			return false, nil
		}
	}
	return true, nil
}
