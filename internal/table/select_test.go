package table

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, tbl *Table, preds []Predicate, dir Direction) []int64 {
	t.Helper()
	var out []int64
	rc, err := Select(tbl, preds, dir, func(m Mark) int {
		v, err := tbl.FetchID(m, 0)
		require.NoError(t, err)
		out = append(out, v)
		return 0
	})
	require.NoError(t, err)
	assert.Equal(t, 0, rc)
	return out
}

func TestSelectCompleteness(t *testing.T) {
	always := []Predicate{{Kind: KindID, Op: OpGe, Column: 0, Literal: "0"}}
	never := []Predicate{{Kind: KindID, Op: OpLt, Column: 0, Literal: "0"}}

	for n := 0; n <= 6; n++ {
		tbl := newLines(t, n)

		fwd := collect(t, tbl, always, Forward)
		rev := collect(t, tbl, always, Reverse)
		require.Len(t, fwd, n)
		require.Len(t, rev, n)

		for i := range fwd {
			assert.Equal(t, fwd[i], rev[len(rev)-1-i], "reverse visits in opposite order")
		}
		sort.Slice(rev, func(i, j int) bool { return rev[i] < rev[j] })
		assert.Equal(t, fwd, rev)

		assert.Empty(t, collect(t, tbl, never, Forward))
		assert.Empty(t, collect(t, tbl, never, Reverse))
	}
}

func TestSelectNoPredicatesVisitsAll(t *testing.T) {
	tbl := newLines(t, 3)
	assert.Equal(t, []int64{0, 1, 2}, collect(t, tbl, nil, Forward))
}

func TestSelectOperators(t *testing.T) {
	tbl := newLines(t, 5) // amounts 0,10,20,30,40

	tests := []struct {
		op      Op
		literal string
		want    []int64
	}{
		{OpEq, "20", []int64{2}},
		{OpNe, "20", []int64{0, 1, 3, 4}},
		{OpLt, "20", []int64{0, 1}},
		{OpLe, "20.00", []int64{0, 1, 2}},
		{OpGt, "20", []int64{3, 4}},
		{OpGe, "19.99", []int64{2, 3, 4}},
	}
	for _, tt := range tests {
		preds := []Predicate{{Kind: KindDecimal, Op: tt.op, Column: 2, Literal: tt.literal}}
		assert.Equal(t, tt.want, collect(t, tbl, preds, Forward), "amount %s %s", tt.op, tt.literal)
	}
}

func TestSelectConjunction(t *testing.T) {
	tbl := newLines(t, 5)
	preds := []Predicate{
		{Kind: KindDecimal, Op: OpGt, Column: 2, Literal: "0"},
		{Kind: KindID, Op: OpLt, Column: 0, Literal: "3"},
	}
	assert.Equal(t, []int64{1, 2}, collect(t, tbl, preds, Forward))
	assert.Equal(t, []int64{2, 1}, collect(t, tbl, preds, Reverse))
}

func TestSelectStrings(t *testing.T) {
	tbl := newLines(t, 3)
	m := tbl.Begin()
	require.NoError(t, tbl.PutString(m, 4, "2025-01-03"))
	require.NoError(t, m.Move(1))
	require.NoError(t, tbl.PutString(m, 4, "2025-02-14"))
	// Row 2 keeps a null date.

	after := []Predicate{{Kind: KindString, Op: OpGe, Column: 4, Literal: "2025-02"}}
	assert.Equal(t, []int64{1}, collect(t, tbl, after, Forward))

	before := []Predicate{{Kind: KindString, Op: OpLt, Column: 4, Literal: "2025-02"}}
	assert.Equal(t, []int64{0, 2}, collect(t, tbl, before, Forward), "null sorts first")
}

func TestSelectEarlyStop(t *testing.T) {
	tbl := newLines(t, 5)
	var seen []int64
	rc, err := Select(tbl, nil, Forward, func(m Mark) int {
		v, _ := tbl.FetchID(m, 0)
		seen = append(seen, v)
		if v == 2 {
			return 7
		}
		return 0
	})
	require.NoError(t, err)
	assert.Equal(t, 7, rc)
	assert.Equal(t, []int64{0, 1, 2}, seen)
}

func TestSelectStorageFailureAborts(t *testing.T) {
	tbl := newLines(t, 3)
	visited := 0
	cb := func(Mark) int { visited++; return 0 }

	_, err := Select(tbl, []Predicate{{Kind: KindID, Op: OpEq, Column: 9, Literal: "1"}}, Forward, cb)
	assert.ErrorIs(t, err, ErrColumnRange)

	_, err = Select(tbl, []Predicate{{Kind: KindString, Op: OpEq, Column: 0, Literal: "1"}}, Forward, cb)
	assert.ErrorIs(t, err, ErrKindMismatch)
	assert.Zero(t, visited)

	// An empty table never reaches the failing fetch: zero rows, no error.
	empty := newLines(t, 0)
	rc, err := Select(empty, []Predicate{{Kind: KindID, Op: OpEq, Column: 9, Literal: "1"}}, Forward, cb)
	require.NoError(t, err)
	assert.Zero(t, rc)
}

func TestSelectBadLiteral(t *testing.T) {
	tbl := newLines(t, 1)
	_, err := Select(tbl, []Predicate{{Kind: KindID, Op: OpEq, Column: 0, Literal: "one"}}, Forward, func(Mark) int { return 0 })
	assert.ErrorIs(t, err, ErrBadLiteral)

	_, err = Select(tbl, []Predicate{{Kind: KindDecimal, Op: OpEq, Column: 2, Literal: "1.2.3"}}, Forward, func(Mark) int { return 0 })
	assert.ErrorIs(t, err, ErrBadLiteral)

	_, err = Select(tbl, []Predicate{{Kind: KindID, Op: Op(42), Column: 0, Literal: "1"}}, Forward, func(Mark) int { return 0 })
	assert.ErrorIs(t, err, ErrBadOperator)
}

func TestSelectCallbackMayDropRow(t *testing.T) {
	tbl := newLines(t, 4)
	odd := []Predicate{{Kind: KindDecimal, Op: OpGe, Column: 2, Literal: "0"}}
	_, err := Select(tbl, odd, Reverse, func(m Mark) int {
		v, _ := tbl.FetchID(m, 0)
		if v%2 == 1 {
			require.NoError(t, tbl.DropRowAt(&m))
		}
		return 0
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 2}, ids(t, tbl))
}

func TestParseOp(t *testing.T) {
	for _, s := range []string{"==", "<", ">", "!=", ">=", "<="} {
		op, err := ParseOp(s)
		require.NoError(t, err)
		assert.Equal(t, s, op.String())
	}
	_, err := ParseOp("=~")
	assert.ErrorIs(t, err, ErrBadOperator)
}
