// Package chart holds the starter ledgers, accounts and journals a new book
// is created with.
package chart

import (
	"fmt"
	"sort"

	"github.com/cleared-dev/ledgerbook/internal/book"
)

// AccountSpec describes one account of a template.
type AccountSpec struct {
	Name        string
	Description string
}

// LedgerSpec describes one ledger and its accounts.
type LedgerSpec struct {
	Name        string
	Description string
	Accounts    []AccountSpec
}

// JournalSpec describes one journal.
type JournalSpec struct {
	Name        string
	Description string
}

// Template is a starter book layout.
type Template struct {
	Ledgers  []LedgerSpec
	Journals []JournalSpec
}

// DefaultTemplate is used when no template is named.
const DefaultTemplate = "household"

var templates = map[string]func() Template{
	"household":      household,
	"small-business": smallBusiness,
	"empty":          func() Template { return Template{} },
}

// Names lists the available templates.
func Names() []string {
	names := make([]string, 0, len(templates))
	for k := range templates {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named template.
func Lookup(name string) (Template, error) {
	fn, ok := templates[name]
	if !ok {
		return Template{}, fmt.Errorf("%w: unknown template %q", book.ErrNotFound, name)
	}
	return fn(), nil
}

// Apply adds the template's ledgers, accounts and journals to b.
func Apply(b *book.Book, t Template) error {
	for _, ls := range t.Ledgers {
		l, _, err := b.AddLedger(ls.Name, ls.Description)
		if err != nil {
			return fmt.Errorf("ledger %q: %w", ls.Name, err)
		}
		for _, as := range ls.Accounts {
			if _, _, err := l.AddAccount(as.Name, as.Description); err != nil {
				return fmt.Errorf("account %q: %w", as.Name, err)
			}
		}
	}
	for _, js := range t.Journals {
		if _, _, err := b.AddJournal(js.Name, js.Description); err != nil {
			return fmt.Errorf("journal %q: %w", js.Name, err)
		}
	}
	return nil
}

// NewBook returns a book laid out by the named template.
func NewBook(name, description string) (*book.Book, error) {
	t, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	b := book.New()
	b.Description = description
	if err := Apply(b, t); err != nil {
		return nil, err
	}
	return b, nil
}

func household() Template {
	return Template{
		Ledgers: []LedgerSpec{
			{Name: "assets", Accounts: []AccountSpec{
				{Name: "checking", Description: "Primary checking account"},
				{Name: "savings"},
				{Name: "cash", Description: "Wallet and petty cash"},
			}},
			{Name: "liabilities", Accounts: []AccountSpec{
				{Name: "credit-card"},
				{Name: "mortgage"},
			}},
			{Name: "income", Accounts: []AccountSpec{
				{Name: "salary"},
				{Name: "interest"},
			}},
			{Name: "expenses", Accounts: []AccountSpec{
				{Name: "food", Description: "Groceries and eating out"},
				{Name: "housing", Description: "Rent or mortgage interest, utilities"},
				{Name: "transport"},
				{Name: "uncategorized", Description: "Imported lines awaiting review"},
			}},
			{Name: "equity", Accounts: []AccountSpec{
				{Name: "opening-balances"},
			}},
		},
		Journals: []JournalSpec{
			{Name: "general", Description: "Manual entries"},
			{Name: "bank", Description: "Imported bank transactions"},
		},
	}
}

func smallBusiness() Template {
	return Template{
		Ledgers: []LedgerSpec{
			{Name: "assets", Accounts: []AccountSpec{
				{Name: "checking", Description: "Business checking"},
				{Name: "savings", Description: "Business savings"},
			}},
			{Name: "liabilities", Accounts: []AccountSpec{
				{Name: "credit-card", Description: "Business credit card"},
			}},
			{Name: "equity", Accounts: []AccountSpec{
				{Name: "owner", Description: "Owner's equity"},
			}},
			{Name: "revenue", Accounts: []AccountSpec{
				{Name: "services"},
				{Name: "products"},
			}},
			{Name: "expenses", Accounts: []AccountSpec{
				{Name: "advertising"},
				{Name: "software", Description: "Software subscriptions"},
				{Name: "office"},
				{Name: "professional", Description: "Legal, accounting, consulting"},
				{Name: "shipping"},
				{Name: "uncategorized", Description: "Imported lines awaiting review"},
			}},
		},
		Journals: []JournalSpec{
			{Name: "general"},
			{Name: "bank"},
		},
	}
}
