// Package book models a double-entry book: ledgers of accounts, journals of
// entries, and the commit protocol that posts a Transaction into them.
package book

import (
	"errors"
	"fmt"

	"github.com/cleared-dev/ledgerbook/internal/id"
	"github.com/cleared-dev/ledgerbook/internal/table"
)

// Account table columns.
const (
	AccountColJournal = iota
	AccountColEntry
	AccountColAmount
	AccountColCheck
	AccountColDate
)

// Journal table columns.
const (
	JournalColEntry = iota
	JournalColLedger
	JournalColAccount
	JournalColAmount
	JournalColCheck
	JournalColDate
)

// AccountColumns is the schema of an account's posting table.
var AccountColumns = []table.Kind{table.KindID, table.KindID, table.KindDecimal, table.KindString, table.KindString}

// JournalColumns is the schema of a journal's posting table.
var JournalColumns = []table.Kind{table.KindID, table.KindID, table.KindID, table.KindDecimal, table.KindString, table.KindString}

// FirstID is the first identifier handed out by a fresh container.
const FirstID = 1

// Book is the top-level container of ledgers and journals.
type Book struct {
	Description string

	ledgers    []*Ledger
	journals   []*Journal
	ledgerSeq  id.Sequence
	journalSeq id.Sequence
}

// Ledger groups accounts.
type Ledger struct {
	ID          int
	Name        string
	Description string

	accounts   []*Account
	accountSeq id.Sequence
}

// Account owns the table of lines posted to it.
type Account struct {
	ID          int
	Name        string
	Description string

	table *table.Table
}

// Journal owns its entries and the table of every line posted through it.
type Journal struct {
	ID          int
	Name        string
	Description string

	entries  []*Entry
	entrySeq id.Sequence
	table    *table.Table
}

// Entry records one committed transaction in a journal.
type Entry struct {
	ID          int
	Name        string
	Description string
	Date        string
}

// New returns an empty book.
func New() *Book {
	return &Book{
		ledgerSeq:  id.NewSequence(FirstID),
		journalSeq: id.NewSequence(FirstID),
	}
}

func newLedger(v int) (*Ledger, error) {
	return &Ledger{ID: v, accountSeq: id.NewSequence(FirstID)}, nil
}

func newAccount(v int) (*Account, error) {
	t, err := table.NewWithColumns(AccountColumns...)
	if err != nil {
		return nil, err
	}
	return &Account{ID: v, table: t}, nil
}

func newJournal(v int) (*Journal, error) {
	t, err := table.NewWithColumns(JournalColumns...)
	if err != nil {
		return nil, err
	}
	return &Journal{ID: v, entrySeq: id.NewSequence(FirstID), table: t}, nil
}

func newEntry(v int) (*Entry, error) {
	return &Entry{ID: v}, nil
}

// resize grows or shrinks items to n. Growing allocates children with fresh
// identifiers; if any creation fails the slice and the sequence are restored.
// Shrinking drops the tail and leaves the sequence alone.
func resize[T any](items []*T, n int, seq *id.Sequence, create func(int) (*T, error)) ([]*T, error) {
	if n < 0 {
		return items, fmt.Errorf("%w: negative size %d", ErrInvalid, n)
	}
	if n <= len(items) {
		for i := n; i < len(items); i++ {
			items[i] = nil
		}
		return items[:n], nil
	}

	orig := len(items)
	var allocated []int
	for len(items) < n {
		v, err := seq.Allocate()
		if err == nil {
			var child *T
			child, err = create(v)
			if err == nil {
				allocated = append(allocated, v)
				items = append(items, child)
				continue
			}
			seq.Undo(v)
		}
		for i := len(allocated) - 1; i >= 0; i-- {
			seq.Undo(allocated[i])
		}
		for i := orig; i < len(items); i++ {
			items[i] = nil
		}
		if errors.Is(err, id.ErrExhausted) {
			err = fmt.Errorf("%w: %w", ErrExhausted, err)
		}
		return items[:orig], err
	}
	return items, nil
}

// ResizeLedgers grows or shrinks the ledger list to n.
func (b *Book) ResizeLedgers(n int) error {
	var err error
	b.ledgers, err = resize(b.ledgers, n, &b.ledgerSeq, newLedger)
	return err
}

// ResizeJournals grows or shrinks the journal list to n.
func (b *Book) ResizeJournals(n int) error {
	var err error
	b.journals, err = resize(b.journals, n, &b.journalSeq, newJournal)
	return err
}

// ResizeAccounts grows or shrinks the account list to n.
func (l *Ledger) ResizeAccounts(n int) error {
	var err error
	l.accounts, err = resize(l.accounts, n, &l.accountSeq, newAccount)
	return err
}

// ResizeEntries grows or shrinks the entry list to n. Shrinking does not
// touch the journal's table.
func (j *Journal) ResizeEntries(n int) error {
	var err error
	j.entries, err = resize(j.entries, n, &j.entrySeq, newEntry)
	return err
}

// AddLedger appends a ledger and returns it with its index.
func (b *Book) AddLedger(name, description string) (*Ledger, int, error) {
	i := len(b.ledgers)
	if err := b.ResizeLedgers(i + 1); err != nil {
		return nil, -1, fmt.Errorf("adding ledger: %w", err)
	}
	l := b.ledgers[i]
	l.Name, l.Description = name, description
	return l, i, nil
}

// AddJournal appends a journal and returns it with its index.
func (b *Book) AddJournal(name, description string) (*Journal, int, error) {
	i := len(b.journals)
	if err := b.ResizeJournals(i + 1); err != nil {
		return nil, -1, fmt.Errorf("adding journal: %w", err)
	}
	j := b.journals[i]
	j.Name, j.Description = name, description
	return j, i, nil
}

// AddAccount appends an account and returns it with its index.
func (l *Ledger) AddAccount(name, description string) (*Account, int, error) {
	i := len(l.accounts)
	if err := l.ResizeAccounts(i + 1); err != nil {
		return nil, -1, fmt.Errorf("adding account: %w", err)
	}
	a := l.accounts[i]
	a.Name, a.Description = name, description
	return a, i, nil
}

// LedgerCount returns the number of ledgers.
func (b *Book) LedgerCount() int { return len(b.ledgers) }

// JournalCount returns the number of journals.
func (b *Book) JournalCount() int { return len(b.journals) }

// Ledger returns the ledger at index i.
func (b *Book) Ledger(i int) (*Ledger, error) {
	if i < 0 || i >= len(b.ledgers) {
		return nil, fmt.Errorf("%w: ledger @%d", ErrNotFound, i)
	}
	return b.ledgers[i], nil
}

// Journal returns the journal at index i.
func (b *Book) Journal(i int) (*Journal, error) {
	if i < 0 || i >= len(b.journals) {
		return nil, fmt.Errorf("%w: journal @%d", ErrNotFound, i)
	}
	return b.journals[i], nil
}

// LedgerIndexByID returns the index of the ledger with identifier v.
func (b *Book) LedgerIndexByID(v int) (int, error) {
	for i, l := range b.ledgers {
		if l.ID == v {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: ledger #%d", ErrNotFound, v)
}

// LedgerIndexByName returns the index of the first ledger named name.
func (b *Book) LedgerIndexByName(name string) (int, error) {
	for i, l := range b.ledgers {
		if l.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: ledger %q", ErrNotFound, name)
}

// JournalIndexByID returns the index of the journal with identifier v.
func (b *Book) JournalIndexByID(v int) (int, error) {
	for i, j := range b.journals {
		if j.ID == v {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: journal #%d", ErrNotFound, v)
}

// JournalIndexByName returns the index of the first journal named name.
func (b *Book) JournalIndexByName(name string) (int, error) {
	for i, j := range b.journals {
		if j.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: journal %q", ErrNotFound, name)
}

// LedgerSequence exposes the ledger identifier sequence for persistence.
func (b *Book) LedgerSequence() *id.Sequence { return &b.ledgerSeq }

// JournalSequence exposes the journal identifier sequence for persistence.
func (b *Book) JournalSequence() *id.Sequence { return &b.journalSeq }

// AccountCount returns the number of accounts.
func (l *Ledger) AccountCount() int { return len(l.accounts) }

// Account returns the account at index i.
func (l *Ledger) Account(i int) (*Account, error) {
	if i < 0 || i >= len(l.accounts) {
		return nil, fmt.Errorf("%w: account @%d in ledger #%d", ErrNotFound, i, l.ID)
	}
	return l.accounts[i], nil
}

// AccountIndexByID returns the index of the account with identifier v.
func (l *Ledger) AccountIndexByID(v int) (int, error) {
	for i, a := range l.accounts {
		if a.ID == v {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: account #%d in ledger #%d", ErrNotFound, v, l.ID)
}

// AccountIndexByName returns the index of the first account named name.
func (l *Ledger) AccountIndexByName(name string) (int, error) {
	for i, a := range l.accounts {
		if a.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: account %q in ledger #%d", ErrNotFound, name, l.ID)
}

// AccountSequence exposes the account identifier sequence for persistence.
func (l *Ledger) AccountSequence() *id.Sequence { return &l.accountSeq }

// Table returns the account's posting table.
func (a *Account) Table() *table.Table { return a.table }

// EntryCount returns the number of entries.
func (j *Journal) EntryCount() int { return len(j.entries) }

// Entry returns the entry at index i.
func (j *Journal) Entry(i int) (*Entry, error) {
	if i < 0 || i >= len(j.entries) {
		return nil, fmt.Errorf("%w: entry @%d in journal #%d", ErrNotFound, i, j.ID)
	}
	return j.entries[i], nil
}

// EntryIndexByID returns the index of the entry with identifier v.
func (j *Journal) EntryIndexByID(v int) (int, error) {
	for i, e := range j.entries {
		if e.ID == v {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: entry #%d in journal #%d", ErrNotFound, v, j.ID)
}

// EntryIndexByName returns the index of the first entry named name.
func (j *Journal) EntryIndexByName(name string) (int, error) {
	for i, e := range j.entries {
		if e.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: entry %q in journal #%d", ErrNotFound, name, j.ID)
}

// EntrySequence exposes the entry identifier sequence for persistence.
func (j *Journal) EntrySequence() *id.Sequence { return &j.entrySeq }

// Table returns the journal's posting table.
func (j *Journal) Table() *table.Table { return j.table }
