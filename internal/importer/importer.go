// Package importer turns bank CSV exports into balanced transactions and
// posts them into a book.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerbook/internal/bignum"
	"github.com/cleared-dev/ledgerbook/internal/book"
)

const dateFormat = book.DateFormat

// BankRow is one parsed line of a bank export.
type BankRow struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = money out of the bank account
	Check       string
	Type        string // bank transaction type (ACH_DEBIT, etc.)
	Reference   string
}

// Parser converts a bank CSV file into BankRows.
type Parser interface {
	Parse(r io.Reader) ([]BankRow, error)
	Format() string
}

// Registry holds parsers by format name.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists the registered format names in order.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	r.Register(&SimpleParser{})
	return r
}

// reference builds a stable row key such as chase_20250103_GITHUBPROS. It
// becomes the entry name, which is how already imported rows are recognized.
func reference(format string, date time.Time, desc string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return fmt.Sprintf("%s_%s_%s", format, date.Format("20060102"), prefix)
}

// Mapping says where imported rows are posted. Bank is the account the
// export belongs to; Contra takes the other side of every row.
type Mapping struct {
	Journal int
	Bank    string
	Contra  string
}

// Transaction builds the two-line transaction for row. The bank account
// gets the row's signed amount and the contra account the opposite.
func (m Mapping) Transaction(row BankRow) (*book.Transaction, error) {
	amount, err := bignum.FromDecimal(row.Amount)
	if err != nil {
		return nil, fmt.Errorf("amount %s: %w", row.Amount, err)
	}
	tx := book.NewTransaction(m.Journal)
	tx.Name = row.Reference
	tx.Description = row.Description
	tx.Date = row.Date.Format(dateFormat)

	if err := tx.AddLine(book.Line{Path: m.Bank, Amount: amount, Check: row.Check}); err != nil {
		return nil, err
	}
	if err := tx.AddLine(book.Line{Path: m.Contra, Amount: amount.Neg(), Check: row.Check}); err != nil {
		return nil, err
	}
	return tx, nil
}

// Result summarizes a Post call.
type Result struct {
	Receipts []book.Receipt
	Skipped  []string // references already present in the journal
}

// Post validates and commits one transaction per row. Rows whose reference
// already names an entry in the target journal are skipped. Posting stops at
// the first failure; rows committed before it stay committed.
func Post(b *book.Book, rows []BankRow, m Mapping, resolver book.AccountResolver) (Result, error) {
	var res Result
	j, err := b.Journal(m.Journal)
	if err != nil {
		return res, err
	}
	for i, row := range rows {
		if _, err := j.EntryIndexByName(row.Reference); err == nil {
			res.Skipped = append(res.Skipped, row.Reference)
			continue
		}
		tx, err := m.Transaction(row)
		if err != nil {
			return res, fmt.Errorf("row %d: %w", i+1, err)
		}
		if errs := book.ValidateTransaction(tx); len(errs) > 0 {
			return res, fmt.Errorf("row %d: %w: %s", i+1, book.ErrInvalid, errs[0].Error())
		}
		r, err := b.Commit(tx, resolver)
		if err != nil {
			return res, fmt.Errorf("row %d: %w", i+1, err)
		}
		res.Receipts = append(res.Receipts, *r)
	}
	return res, nil
}

// Inbox is the directory bank exports are dropped into before import.
type Inbox struct {
	Dir string
}

// FileInfo describes a CSV file waiting in the inbox.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewInbox returns the inbox under the project root.
func NewInbox(root string) *Inbox {
	return &Inbox{Dir: filepath.Join(root, "import")}
}

func (in *Inbox) processedDir() string {
	return filepath.Join(in.Dir, "processed")
}

// Scan returns the CSV files waiting in the inbox. A missing inbox is empty.
func (in *Inbox) Scan() ([]FileInfo, error) {
	entries, err := os.ReadDir(in.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(in.Dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from the inbox into its processed/ directory.
func (in *Inbox) MarkProcessed(name string) error {
	if err := os.MkdirAll(in.processedDir(), 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}
	src := filepath.Join(in.Dir, name)
	dst := filepath.Join(in.processedDir(), name)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", name, err)
	}
	return nil
}

// ParseFile opens path and parses it with p.
func ParseFile(p Parser, path string) ([]BankRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rows, nil
}
