package book

import (
	"errors"
	"fmt"

	"github.com/cleared-dev/ledgerbook/internal/table"
)

// AccountResolver turns an account path into ledger and account indices.
type AccountResolver interface {
	ResolveAccount(b *Book, path string) (ledger, account int, err error)
}

// CommitState names the phase a commit reached.
type CommitState int

const (
	Verifying CommitState = iota
	AcquiringEntry
	AcquiringLines
	Committed
	RolledBack
)

func (s CommitState) String() string {
	switch s {
	case Verifying:
		return "verifying"
	case AcquiringEntry:
		return "acquiring entry"
	case AcquiringLines:
		return "acquiring lines"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled back"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// CommitError reports the phase and line at which a commit failed. By the
// time it is returned the book has been restored to its prior shape.
type CommitError struct {
	State CommitState
	Line  int // -1 when no particular line is at fault
	Err   error
}

func (e *CommitError) Error() string {
	if e.Line < 0 {
		return fmt.Sprintf("commit failed while %s: %v", e.State, e.Err)
	}
	return fmt.Sprintf("commit failed while %s line %d: %v", e.State, e.Line, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// Receipt describes a committed transaction.
type Receipt struct {
	Journal int
	Entry   int
	EntryID int
	Lines   int
}

// placed is a row added by a commit attempt, kept so it can be dropped again.
type placed struct {
	t *table.Table
	m table.Mark
}

// Commit posts tx into b. One entry is added to the target journal, and each
// line adds a row to its account's table and a row to the journal's table.
// On any failure every row and the entry added by this call are removed again
// and b is left as it was, except that an entry identifier, once handed out,
// is not reused.
//
// Commit does not check that tx balances; use CheckBalance first.
func (b *Book) Commit(tx *Transaction, resolver AccountResolver) (*Receipt, error) {
	if err := b.verify(tx, resolver); err != nil {
		return nil, err
	}

	j, err := b.Journal(tx.Journal)
	if err != nil {
		return nil, &CommitError{State: AcquiringEntry, Line: -1, Err: err}
	}
	entryIdx := len(j.entries)
	if err := j.ResizeEntries(entryIdx + 1); err != nil {
		return nil, &CommitError{State: AcquiringEntry, Line: -1, Err: err}
	}
	e := j.entries[entryIdx]
	e.Name = tx.Name
	e.Description = tx.Description
	e.Date = tx.Date

	var rows []placed
	line := 0
	err = tx.EachLine(func(i int, l Line) error {
		line = i
		return b.postLine(j, e, tx.Date, l, &rows)
	})
	if err != nil {
		undo := rollback(rows)
		if rerr := j.ResizeEntries(entryIdx); rerr != nil {
			undo = append(undo, fmt.Errorf("removing entry: %w", rerr))
		}
		return nil, &CommitError{State: AcquiringLines, Line: line, Err: errors.Join(append([]error{err}, undo...)...)}
	}

	return &Receipt{
		Journal: tx.Journal,
		Entry:   entryIdx,
		EntryID: e.ID,
		Lines:   tx.LineCount(),
	}, nil
}

// verify resolves every line to an existing account. Only tx is modified.
func (b *Book) verify(tx *Transaction, resolver AccountResolver) error {
	t := tx.lines
	line := 0
	return t.Each(func(m table.Mark) error {
		i := line
		line++
		fail := func(err error) error {
			return &CommitError{State: Verifying, Line: i, Err: err}
		}

		path, hasPath, err := t.FetchString(m, LineColPath)
		if err != nil {
			return fail(err)
		}
		if hasPath {
			if resolver == nil {
				return fail(fmt.Errorf("%w: no resolver for path %q", ErrInvalid, path))
			}
			li, ai, err := resolver.ResolveAccount(b, path)
			if err != nil {
				return fail(fmt.Errorf("resolving %q: %w", path, err))
			}
			if err := t.PutID(m, LineColLedger, int64(li)); err != nil {
				return fail(err)
			}
			if err := t.PutID(m, LineColAccount, int64(ai)); err != nil {
				return fail(err)
			}
		}

		li, err := t.FetchID(m, LineColLedger)
		if err != nil {
			return fail(err)
		}
		ai, err := t.FetchID(m, LineColAccount)
		if err != nil {
			return fail(err)
		}
		l, err := b.Ledger(int(li))
		if err != nil {
			return fail(err)
		}
		if _, err := l.Account(int(ai)); err != nil {
			return fail(err)
		}
		return nil
	})
}

func (b *Book) postLine(j *Journal, e *Entry, date string, l Line, rows *[]placed) error {
	ledger := b.ledgers[l.Ledger]
	acct := ledger.accounts[l.Account]
	if l.Date != "" {
		date = l.Date
	}

	am, err := acct.table.AppendRow()
	if err != nil {
		return fmt.Errorf("account #%d: %w", acct.ID, err)
	}
	*rows = append(*rows, placed{t: acct.table, m: am})
	if err := writeRow(acct.table, am, []table.Cell{
		table.IDCell(int64(j.ID)),
		table.IDCell(int64(e.ID)),
		table.DecimalCell(l.Amount),
		optString(l.Check),
		optString(date),
	}); err != nil {
		return fmt.Errorf("account #%d: %w", acct.ID, err)
	}

	jm, err := j.table.AppendRow()
	if err != nil {
		return fmt.Errorf("journal #%d: %w", j.ID, err)
	}
	*rows = append(*rows, placed{t: j.table, m: jm})
	if err := writeRow(j.table, jm, []table.Cell{
		table.IDCell(int64(e.ID)),
		table.IDCell(int64(ledger.ID)),
		table.IDCell(int64(acct.ID)),
		table.DecimalCell(l.Amount),
		optString(l.Check),
		optString(date),
	}); err != nil {
		return fmt.Errorf("journal #%d: %w", j.ID, err)
	}
	return nil
}

// rollback drops rows newest first. Every row is attempted even if an
// earlier drop fails.
func rollback(rows []placed) []error {
	var errs []error
	for i := len(rows) - 1; i >= 0; i-- {
		if err := rows[i].t.DropRowAt(&rows[i].m); err != nil {
			errs = append(errs, fmt.Errorf("dropping row: %w", err))
		}
	}
	return errs
}

func writeRow(t *table.Table, m table.Mark, cells []table.Cell) error {
	for col, c := range cells {
		if err := t.Put(m, col, c); err != nil {
			return err
		}
	}
	return nil
}

func optString(s string) table.Cell {
	if s == "" {
		return table.NullCell()
	}
	return table.StringCell(s)
}
