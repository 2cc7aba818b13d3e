package bignum

import (
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0", "0"},
		{"-12.34", "-12.34"},
		{"12.34", "12.34"},
		{"+5", "5"},
		{"007", "7"},
		{"007.5", "7.50"},
		{"-0.00", "0.00"},
		{".25", "0.25"},
		{"1.234", "1.2340"},
		{"100", "100"},
		{"-0", "0"},
	}
	for _, tt := range tests {
		n, err := Parse(tt.input)
		require.NoError(t, err, "Parse(%q)", tt.input)
		assert.Equal(t, tt.want, n.String(), "Parse(%q)", tt.input)
	}
}

func TestParseRoundTripIsNumeric(t *testing.T) {
	inputs := []string{"0", "1", "-1", "12.34", "-12.34", "0.01", "99999999.99", "3.5", "-000.10"}
	for _, in := range inputs {
		n, err := Parse(in)
		require.NoError(t, err)

		back, err := Parse(n.String())
		require.NoError(t, err)
		assert.True(t, n.Equal(back), "%q -> %q", in, n.String())

		want, err := decimal.NewFromString(in)
		require.NoError(t, err)
		assert.True(t, want.Equal(back.Decimal()), "%q value changed", in)
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{"", "-", "+", ".", "1.", "1.2.3", "1e5", "abc", "12a", " 1", "1,000"}
	for _, in := range bad {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrSyntax, "input %q", in)
	}
}

func TestFormatShowPlus(t *testing.T) {
	assert.Equal(t, "+3", MustParse("3").Format(true))
	assert.Equal(t, "+0.00", MustParse("0.00").Format(true))
	assert.Equal(t, "-3", MustParse("-3").Format(true))
}

func TestAllocate(t *testing.T) {
	var n Number
	require.NoError(t, n.Allocate(3, 1))
	assert.Equal(t, "0.00", n.String())
	assert.Equal(t, 3, n.Digits())
	assert.Equal(t, 1, n.Point())

	n = MustParse("-45.67")
	require.NoError(t, n.Allocate(4, 2))
	assert.True(t, n.IsZero())
	assert.Equal(t, "0.0000", n.String())

	assert.ErrorIs(t, n.Allocate(2, 3), ErrPrecision)
	assert.ErrorIs(t, n.Allocate(MaxDigits+1, 0), ErrPrecision)
	assert.ErrorIs(t, n.Allocate(1, -1), ErrPrecision)
}

func TestExtendPreservesValue(t *testing.T) {
	n := MustParse("12.34")
	require.NoError(t, n.Extend(6, 3))
	assert.Equal(t, "12.340000", n.String())
	assert.Equal(t, 3, n.Point())
	assert.Equal(t, 6, n.Digits())

	// A smaller request never shrinks.
	require.NoError(t, n.Extend(1, 0))
	assert.Equal(t, 3, n.Point())
	assert.Equal(t, 6, n.Digits())
	assert.True(t, n.Equal(MustParse("12.34")))
}

func TestSetTextKeepsAllocation(t *testing.T) {
	n, err := New(10, 2)
	require.NoError(t, err)
	require.NoError(t, n.SetText("5"))
	assert.Equal(t, "5.0000", n.String())
}

func TestInt64RoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 42, -1234567, math.MaxInt64 - 1, math.MinInt64 + 1, math.MaxInt64, math.MinInt64}
	for _, v := range values {
		n := FromInt64(v)
		assert.Equal(t, v, n.Int64(), "value %d", v)
	}
}

func TestInt64Saturates(t *testing.T) {
	assert.Equal(t, int64(math.MaxInt64), MustParse("9223372036854775808").Int64())
	assert.Equal(t, int64(math.MaxInt64), MustParse("99999999999999999999999").Int64())
	assert.Equal(t, int64(math.MinInt64), MustParse("-9223372036854775809").Int64())
	assert.Equal(t, int64(-12), MustParse("-12.99").Int64())
	assert.Equal(t, int64(12), MustParse("12.99").Int64())
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1", "2", -1},
		{"2", "1", 1},
		{"1.00", "1", 0},
		{"-5", "3", -1},
		{"-5", "-6", 1},
		{"0.10", "0.1", 0},
		{"100", "99.99", 1},
	}
	for _, tt := range tests {
		got := MustParse(tt.a).Compare(MustParse(tt.b))
		assert.Equal(t, tt.want, got, "%s <=> %s", tt.a, tt.b)
	}
	assert.True(t, MustParse("1.00").Equal(MustParse("1")))
}

func TestAddSub(t *testing.T) {
	sum, err := MustParse("12.34").Add(MustParse("-12.34"))
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
	assert.Equal(t, "0.00", sum.String())

	sum, err = MustParse("99").Add(MustParse("1.5"))
	require.NoError(t, err)
	assert.Equal(t, "100.50", sum.String())
	assert.Equal(t, 3, sum.Digits())

	diff, err := MustParse("1").Sub(MustParse("2.25"))
	require.NoError(t, err)
	assert.Equal(t, "-1.25", diff.String())
	assert.Equal(t, -1, diff.Sign())
}

func TestNeg(t *testing.T) {
	n := MustParse("4.00").Neg()
	assert.Equal(t, "-4.00", n.String())
	assert.Equal(t, "0", MustParse("0").Neg().String())
}

func TestOverflow(t *testing.T) {
	nines := strings.Repeat("9", 2*MaxDigits)
	big, err := Parse(nines)
	require.NoError(t, err)
	assert.Equal(t, MaxDigits, big.Digits())

	_, err = big.Add(FromInt64(1))
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = Parse(nines + "9")
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestFromDecimal(t *testing.T) {
	n, err := FromDecimal(decimal.RequireFromString("4.005"))
	require.NoError(t, err)
	assert.Equal(t, 2, n.Point())
	assert.Equal(t, "4.0050", n.String())

	n, err = FromDecimal(decimal.NewFromInt(-3500))
	require.NoError(t, err)
	assert.Equal(t, "-3500", n.String())
}
