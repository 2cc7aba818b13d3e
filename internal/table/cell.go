package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cleared-dev/ledgerbook/internal/bignum"
)

// Kind is the declared type of a column.
type Kind int

const (
	KindID Kind = iota + 1
	KindDecimal
	KindString
)

// String returns the kind's schema name.
func (k Kind) String() string {
	switch k {
	case KindID:
		return "id"
	case KindDecimal:
		return "decimal"
	case KindString:
		return "ustring"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= KindID && k <= KindString
}

// ParseKind reads a schema name as written by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "id":
		return KindID, nil
	case "decimal":
		return KindDecimal, nil
	case "ustring", "string":
		return KindString, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Cell is one value in a row. Exactly one payload is meaningful, chosen by Kind.
type Cell struct {
	kind  Kind
	id    int64
	num   bignum.Number
	str   string
	valid bool
}

// IDCell returns an Id cell.
func IDCell(v int64) Cell { return Cell{kind: KindID, id: v} }

// DecimalCell returns a Decimal cell.
func DecimalCell(n bignum.Number) Cell { return Cell{kind: KindDecimal, num: n} }

// StringCell returns a non-null UString cell.
func StringCell(s string) Cell { return Cell{kind: KindString, str: s, valid: true} }

// NullCell returns a null UString cell.
func NullCell() Cell { return Cell{kind: KindString} }

func zeroCell(k Kind) Cell { return Cell{kind: k} }

// Kind returns the cell's variant.
func (c Cell) Kind() Kind { return c.kind }

// ID returns the Id payload.
func (c Cell) ID() (int64, error) {
	if c.kind != KindID {
		return 0, fmt.Errorf("%w: want id, have %s", ErrKindMismatch, c.kind)
	}
	return c.id, nil
}

// Decimal returns the Decimal payload.
func (c Cell) Decimal() (bignum.Number, error) {
	if c.kind != KindDecimal {
		return bignum.Number{}, fmt.Errorf("%w: want decimal, have %s", ErrKindMismatch, c.kind)
	}
	return c.num, nil
}

// Str returns the UString payload and whether it is non-null.
func (c Cell) Str() (string, bool, error) {
	if c.kind != KindString {
		return "", false, fmt.Errorf("%w: want ustring, have %s", ErrKindMismatch, c.kind)
	}
	return c.str, c.valid, nil
}

// IsNull reports whether c is a null UString.
func (c Cell) IsNull() bool { return c.kind == KindString && !c.valid }

// Equal compares kind and payload. Decimals compare numerically.
func (c Cell) Equal(d Cell) bool {
	if c.kind != d.kind {
		return false
	}
	switch c.kind {
	case KindID:
		return c.id == d.id
	case KindDecimal:
		return c.num.Equal(d.num)
	case KindString:
		return c.valid == d.valid && c.str == d.str
	}
	return true
}

// Text renders the payload; null strings render empty.
func (c Cell) Text() string {
	switch c.kind {
	case KindID:
		return strconv.FormatInt(c.id, 10)
	case KindDecimal:
		return c.num.String()
	case KindString:
		return c.str
	}
	return ""
}

// ParseCell reads text as a cell of kind k. Empty text is a null UString.
func ParseCell(k Kind, s string) (Cell, error) {
	switch k {
	case KindID:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Cell{}, fmt.Errorf("parsing id %q: %w", s, err)
		}
		return IDCell(v), nil
	case KindDecimal:
		n, err := bignum.Parse(s)
		if err != nil {
			return Cell{}, fmt.Errorf("parsing decimal %q: %w", s, err)
		}
		return DecimalCell(n), nil
	case KindString:
		if s == "" {
			return NullCell(), nil
		}
		return StringCell(s), nil
	default:
		return Cell{}, fmt.Errorf("%w: %d", ErrInvalidKind, int(k))
	}
}

// compare orders two cells of the same kind. A null string sorts first.
func compare(a, b Cell) int {
	switch a.kind {
	case KindID:
		switch {
		case a.id < b.id:
			return -1
		case a.id > b.id:
			return 1
		}
		return 0
	case KindDecimal:
		return a.num.Compare(b.num)
	case KindString:
		switch {
		case !a.valid && !b.valid:
			return 0
		case !a.valid:
			return -1
		case !b.valid:
			return 1
		}
		return strings.Compare(a.str, b.str)
	}
	return 0
}
