package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txWith(t *testing.T, date string, lines ...Line) *Transaction {
	t.Helper()
	tx := NewTransaction(0)
	tx.Date = date
	for _, l := range lines {
		require.NoError(t, tx.AddLine(l))
	}
	return tx
}

func rules(errs []ValidationError) []int {
	var out []int
	for _, e := range errs {
		out = append(out, e.Rule)
	}
	return out
}

func TestValidate_Balanced(t *testing.T) {
	tx := txWith(t, "2025-01-15",
		Line{Ledger: 0, Account: 1, Amount: dec("100.00")},
		Line{Ledger: 0, Account: 0, Amount: dec("-100.00")},
	)
	assert.Empty(t, ValidateTransaction(tx))
}

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		lines []Line
		want  []int
	}{
		{
			name:  "single line",
			lines: []Line{{Ledger: 0, Account: 0, Amount: dec("0")}},
			want:  []int{1, 4},
		},
		{
			name: "unbalanced",
			lines: []Line{
				{Ledger: 0, Account: 1, Amount: dec("100.00")},
				{Ledger: 0, Account: 0, Amount: dec("-99.99")},
			},
			want: []int{2},
		},
		{
			name: "bad transaction date",
			date: "15/01/2025",
			lines: []Line{
				{Ledger: 0, Account: 1, Amount: dec("1")},
				{Ledger: 0, Account: 0, Amount: dec("-1")},
			},
			want: []int{3},
		},
		{
			name: "bad line date",
			lines: []Line{
				{Ledger: 0, Account: 1, Amount: dec("1"), Date: "2025-02-30"},
				{Ledger: 0, Account: 0, Amount: dec("-1")},
			},
			want: []int{3},
		},
		{
			name: "zero line",
			lines: []Line{
				{Ledger: 0, Account: 1, Amount: dec("5")},
				{Ledger: 0, Account: 2, Amount: dec("0.00")},
				{Ledger: 0, Account: 0, Amount: dec("-5")},
			},
			want: []int{4},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateTransaction(txWith(t, tt.date, tt.lines...))
			assert.Equal(t, tt.want, rules(errs))
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	e := ValidationError{Rule: 4, Line: 1, Description: "amount is zero"}
	assert.Equal(t, "rule 4 [line 1]: amount is zero", e.Error())

	e = ValidationError{Rule: 2, Line: -1, Description: "lines sum to 1.00, must be 0"}
	assert.Equal(t, "rule 2: lines sum to 1.00, must be 0", e.Error())
}
