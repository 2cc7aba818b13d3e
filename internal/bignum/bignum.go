// Package bignum implements the centesimal fixed-point number used for amounts.
//
// A Number carries a value and an allocation: a capacity of base-100 digits and
// how many of those digits sit after the decimal point. The allocation decides
// how the number prints (two decimal places per fractional digit) and how large
// it may grow. Values are compared numerically, never by representation.
package bignum

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxDigits is the largest allocation, in base-100 digits, a Number may hold.
const MaxDigits = 100

var (
	// ErrSyntax is returned when text does not match [+-]digits[.digits].
	ErrSyntax = errors.New("malformed decimal")

	// ErrPrecision is returned for an allocation outside 0 <= point <= digits <= MaxDigits.
	ErrPrecision = errors.New("invalid decimal precision")

	// ErrOverflow is returned when a value needs more than MaxDigits digits.
	ErrOverflow = errors.New("decimal overflow")
)

var (
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
	minInt64 = decimal.NewFromInt(math.MinInt64)
)

// Number is a signed fixed-point decimal. The zero value is 0 with no allocation.
type Number struct {
	value  decimal.Decimal
	digits int
	point  int
}

// New returns zero allocated with the given precision.
func New(digits, point int) (Number, error) {
	var n Number
	if err := n.Allocate(digits, point); err != nil {
		return Number{}, err
	}
	return n, nil
}

// FromInt64 returns v with no fractional precision.
func FromInt64(v int64) Number {
	var n Number
	n.SetInt64(v)
	return n
}

// FromDecimal converts a shopspring decimal, allocating enough fractional
// digits for its exponent.
func FromDecimal(d decimal.Decimal) (Number, error) {
	point := 0
	if exp := d.Exponent(); exp < 0 {
		point = (int(-exp) + 1) / 2
	}
	if point > MaxDigits {
		return Number{}, fmt.Errorf("%w: %d fractional digits", ErrOverflow, point)
	}
	intDigits := integerDigits(d)
	if intDigits+point > MaxDigits {
		return Number{}, fmt.Errorf("%w: %s", ErrOverflow, d.String())
	}
	return Number{value: d, digits: intDigits + point, point: point}, nil
}

// Parse reads text such as "-12.34", "+5" or "0".
func Parse(s string) (Number, error) {
	var n Number
	if err := n.SetText(s); err != nil {
		return Number{}, err
	}
	return n, nil
}

// MustParse is Parse for constants; it panics on malformed input.
func MustParse(s string) Number {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

// Allocate resets n to zero with the given precision.
func (n *Number) Allocate(digits, point int) error {
	if err := checkPrecision(digits, point); err != nil {
		return err
	}
	n.value = decimal.Zero
	n.digits = digits
	n.point = point
	return nil
}

// Extend grows the allocation so it holds at least digits-point integer digits
// and point fractional digits. The value is preserved and precision never shrinks.
func (n *Number) Extend(digits, point int) error {
	if err := checkPrecision(digits, point); err != nil {
		return err
	}
	newPoint := max(n.point, point)
	newInt := max(n.digits-n.point, digits-point)
	if newInt+newPoint > MaxDigits {
		return fmt.Errorf("%w: %d digits requested", ErrPrecision, newInt+newPoint)
	}
	n.digits = newInt + newPoint
	n.point = newPoint
	return nil
}

// SetInt64 stores v, extending the integer capacity if needed.
func (n *Number) SetInt64(v int64) {
	d := decimal.NewFromInt(v)
	// An int64 needs at most ten base-100 digits; fractional capacity gives way
	// only when the allocation is already full.
	intCap := max(n.digits-n.point, integerDigits(d))
	if intCap+n.point > MaxDigits {
		n.point = MaxDigits - intCap
	}
	n.value = d
	n.digits = intCap + n.point
}

// Int64 returns the integer part, truncated toward zero and saturated to the
// int64 range.
func (n Number) Int64() int64 {
	t := n.value.Truncate(0)
	switch {
	case t.GreaterThan(maxInt64):
		return math.MaxInt64
	case t.LessThan(minInt64):
		return math.MinInt64
	}
	return t.IntPart()
}

// SetText parses s into n. The allocation is extended to fit the text and is
// never reduced, so a number allocated with four fractional digits keeps them.
func (n *Number) SetText(s string) error {
	neg, intPart, fracPart, err := scan(s)
	if err != nil {
		return err
	}

	if len(fracPart)%2 == 1 {
		fracPart += "0"
	}
	point := len(fracPart) / 2
	intPart = strings.TrimLeft(intPart, "0")
	intDigits := (len(intPart) + 1) / 2

	newPoint := max(n.point, point)
	newInt := max(n.digits-n.point, intDigits)
	if newInt+newPoint > MaxDigits {
		return fmt.Errorf("%w: %q", ErrOverflow, s)
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	if intPart == "" {
		b.WriteByte('0')
	} else {
		b.WriteString(intPart)
	}
	if fracPart != "" {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	v, err := decimal.NewFromString(b.String())
	if err != nil {
		return fmt.Errorf("%w: %q", ErrSyntax, s)
	}

	n.value = v
	n.digits = newInt + newPoint
	n.point = newPoint
	return nil
}

// String returns the canonical text form.
func (n Number) String() string {
	return n.Format(false)
}

// Format returns the canonical text form. With showPlus, non-negative values
// carry a leading '+'.
func (n Number) Format(showPlus bool) string {
	s := n.value.StringFixed(int32(2 * n.point))
	if showPlus && n.value.Sign() >= 0 {
		return "+" + s
	}
	return s
}

// Compare returns -1, 0 or +1 as n is less than, equal to or greater than m.
func (n Number) Compare(m Number) int {
	return n.value.Cmp(m.value)
}

// Equal reports whether n and m have the same value, whatever their allocation.
func (n Number) Equal(m Number) bool {
	return n.value.Equal(m.value)
}

// Add returns n+m with the wider of both allocations.
func (n Number) Add(m Number) (Number, error) {
	v := n.value.Add(m.value)
	point := max(n.point, m.point)
	intCap := max(n.digits-n.point, m.digits-m.point, integerDigits(v))
	if intCap+point > MaxDigits {
		return Number{}, fmt.Errorf("%w: %s + %s", ErrOverflow, n, m)
	}
	return Number{value: v, digits: intCap + point, point: point}, nil
}

// Sub returns n-m.
func (n Number) Sub(m Number) (Number, error) {
	return n.Add(m.Neg())
}

// Neg returns -n with the same allocation.
func (n Number) Neg() Number {
	return Number{value: n.value.Neg(), digits: n.digits, point: n.point}
}

// IsZero reports whether n is zero.
func (n Number) IsZero() bool { return n.value.IsZero() }

// Sign returns -1, 0 or +1.
func (n Number) Sign() int { return n.value.Sign() }

// Digits returns the allocated base-100 digit count.
func (n Number) Digits() int { return n.digits }

// Point returns the allocated fractional base-100 digit count.
func (n Number) Point() int { return n.point }

// Decimal returns the value as a shopspring decimal.
func (n Number) Decimal() decimal.Decimal { return n.value }

func checkPrecision(digits, point int) error {
	if point < 0 || digits < point || digits > MaxDigits {
		return fmt.Errorf("%w: digits=%d point=%d", ErrPrecision, digits, point)
	}
	return nil
}

// integerDigits counts the base-100 digits of the integer part of |d|.
func integerDigits(d decimal.Decimal) int {
	s := d.Abs().Truncate(0).String()
	if s == "0" {
		return 0
	}
	return (len(s) + 1) / 2
}

func scan(s string) (neg bool, intPart, fracPart string, err error) {
	rest := s
	if rest != "" && (rest[0] == '+' || rest[0] == '-') {
		neg = rest[0] == '-'
		rest = rest[1:]
	}

	i := 0
	for i < len(rest) && isDigit(rest[i]) {
		i++
	}
	intPart = rest[:i]
	rest = rest[i:]

	if rest != "" {
		if rest[0] != '.' {
			return false, "", "", fmt.Errorf("%w: %q", ErrSyntax, s)
		}
		rest = rest[1:]
		j := 0
		for j < len(rest) && isDigit(rest[j]) {
			j++
		}
		if j == 0 || j != len(rest) {
			return false, "", "", fmt.Errorf("%w: %q", ErrSyntax, s)
		}
		fracPart = rest
	}

	if intPart == "" && fracPart == "" {
		return false, "", "", fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	return neg, intPart, fracPart, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
