package book

import (
	"fmt"

	"github.com/cleared-dev/ledgerbook/internal/bignum"
	"github.com/cleared-dev/ledgerbook/internal/table"
)

// Transaction line columns.
const (
	LineColLedger = iota
	LineColAccount
	LineColAmount
	LineColCheck
	LineColDate
	LineColPath
)

// LineColumns is the schema of a transaction's line table.
var LineColumns = []table.Kind{table.KindID, table.KindID, table.KindDecimal, table.KindString, table.KindString, table.KindString}

// Transaction is a proposed set of debit and credit lines for one journal.
// It is built by the caller, committed once, and then discarded.
type Transaction struct {
	Name        string
	Description string
	Date        string
	Journal     int

	lines *table.Table
}

// Line is one debit (positive) or credit (negative) line of a Transaction.
// Ledger and Account are indices; they are ignored when Path names the account
// and filled in once the path is resolved.
type Line struct {
	Ledger  int
	Account int
	Amount  bignum.Number
	Check   string
	Date    string
	Path    string
}

// NewTransaction returns an empty transaction targeting journal index j.
func NewTransaction(j int) *Transaction {
	t, err := table.NewWithColumns(LineColumns...)
	if err != nil {
		panic(err) // LineColumns is a valid schema
	}
	return &Transaction{Journal: j, lines: t}
}

// AddLine appends a line. A line needs either a Path or both indices.
func (tx *Transaction) AddLine(l Line) error {
	if l.Path == "" && (l.Ledger < 0 || l.Account < 0) {
		return fmt.Errorf("%w: line needs an account path or ledger and account indices", ErrInvalid)
	}

	m, err := tx.lines.AppendRow()
	if err != nil {
		return fmt.Errorf("adding line: %w", err)
	}
	if err := tx.writeLine(m, l); err != nil {
		_ = tx.lines.DropRowAt(&m)
		return fmt.Errorf("adding line: %w", err)
	}
	return nil
}

func (tx *Transaction) writeLine(m table.Mark, l Line) error {
	ledger, account := int64(l.Ledger), int64(l.Account)
	if l.Path != "" {
		ledger, account = -1, -1
	}
	if err := tx.lines.PutID(m, LineColLedger, ledger); err != nil {
		return err
	}
	if err := tx.lines.PutID(m, LineColAccount, account); err != nil {
		return err
	}
	if err := tx.lines.PutDecimal(m, LineColAmount, l.Amount); err != nil {
		return err
	}
	for col, s := range map[int]string{LineColCheck: l.Check, LineColDate: l.Date, LineColPath: l.Path} {
		if s == "" {
			continue
		}
		if err := tx.lines.PutString(m, col, s); err != nil {
			return err
		}
	}
	return nil
}

// LineCount returns the number of lines.
func (tx *Transaction) LineCount() int { return tx.lines.CountRows() }

// Lines returns the transaction's line table.
func (tx *Transaction) Lines() *table.Table { return tx.lines }

// Line returns line i.
func (tx *Transaction) Line(i int) (Line, error) {
	m := tx.lines.Begin()
	if i < 0 || i >= tx.lines.CountRows() {
		return Line{}, fmt.Errorf("%w: line %d", ErrNotFound, i)
	}
	if err := m.Move(i); err != nil {
		return Line{}, err
	}
	return readLine(tx.lines, m)
}

// EachLine calls fn for every line in order.
func (tx *Transaction) EachLine(fn func(i int, l Line) error) error {
	i := 0
	return tx.lines.Each(func(m table.Mark) error {
		l, err := readLine(tx.lines, m)
		if err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
		if err := fn(i, l); err != nil {
			return err
		}
		i++
		return nil
	})
}

func readLine(t *table.Table, m table.Mark) (Line, error) {
	var l Line
	ledger, err := t.FetchID(m, LineColLedger)
	if err != nil {
		return Line{}, err
	}
	account, err := t.FetchID(m, LineColAccount)
	if err != nil {
		return Line{}, err
	}
	l.Ledger, l.Account = int(ledger), int(account)
	if l.Amount, err = t.FetchDecimal(m, LineColAmount); err != nil {
		return Line{}, err
	}
	if l.Check, _, err = t.FetchString(m, LineColCheck); err != nil {
		return Line{}, err
	}
	if l.Date, _, err = t.FetchString(m, LineColDate); err != nil {
		return Line{}, err
	}
	if l.Path, _, err = t.FetchString(m, LineColPath); err != nil {
		return Line{}, err
	}
	return l, nil
}

// CheckBalance reports whether the line amounts sum to exactly zero.
func CheckBalance(tx *Transaction) (bool, error) {
	sum, err := tx.Total()
	if err != nil {
		return false, err
	}
	return sum.IsZero(), nil
}

// Total returns the sum of all line amounts.
func (tx *Transaction) Total() (bignum.Number, error) {
	var sum bignum.Number
	err := tx.lines.Each(func(m table.Mark) error {
		amount, err := tx.lines.FetchDecimal(m, LineColAmount)
		if err != nil {
			return err
		}
		sum, err = sum.Add(amount)
		return err
	})
	if err != nil {
		return bignum.Number{}, fmt.Errorf("summing lines: %w", err)
	}
	return sum, nil
}
