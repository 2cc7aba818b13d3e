// Package archive saves a book to a zip file and loads it back. The archive
// holds manifest.json, describing every entity, and one CSV file per table.
package archive

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cleared-dev/ledgerbook/internal/book"
	"github.com/cleared-dev/ledgerbook/internal/id"
	"github.com/cleared-dev/ledgerbook/internal/table"
)

// Version is the manifest format written by Save.
const Version = 1

const manifestName = "manifest.json"

var (
	ErrFormat  = fmt.Errorf("malformed archive: %w", book.ErrInvalid)
	ErrSchema  = fmt.Errorf("table schema mismatch: %w", book.ErrInvalid)
	ErrVersion = fmt.Errorf("unsupported archive version: %w", book.ErrInvalid)
)

type manifest struct {
	Version     int           `json:"version"`
	Description string        `json:"description,omitempty"`
	NextLedger  int           `json:"next_ledger_id"`
	NextJournal int           `json:"next_journal_id"`
	Ledgers     []ledgerMeta  `json:"ledgers"`
	Journals    []journalMeta `json:"journals"`
}

type ledgerMeta struct {
	ID          int           `json:"id"`
	Name        string        `json:"name,omitempty"`
	Description string        `json:"description,omitempty"`
	NextAccount int           `json:"next_account_id"`
	Accounts    []accountMeta `json:"accounts"`
}

type accountMeta struct {
	ID          int    `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Table       string `json:"table"`
}

type journalMeta struct {
	ID          int         `json:"id"`
	Name        string      `json:"name,omitempty"`
	Description string      `json:"description,omitempty"`
	NextEntry   int         `json:"next_entry_id"`
	Table       string      `json:"table"`
	Entries     []entryMeta `json:"entries"`
}

type entryMeta struct {
	ID          int    `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
}

func accountTableName(ledgerID, accountID int) string {
	return fmt.Sprintf("tables/ledger-%d-account-%d.csv", ledgerID, accountID)
}

func journalTableName(journalID int) string {
	return fmt.Sprintf("tables/journal-%d.csv", journalID)
}

// Save writes b to w as a zip archive.
func Save(w io.Writer, b *book.Book) error {
	zw := zip.NewWriter(w)

	m := manifest{
		Version:     Version,
		Description: b.Description,
		NextLedger:  b.LedgerSequence().Next(),
		NextJournal: b.JournalSequence().Next(),
	}
	tables := map[string]*table.Table{}
	var order []string

	for i := 0; i < b.LedgerCount(); i++ {
		l, err := b.Ledger(i)
		if err != nil {
			return err
		}
		lm := ledgerMeta{
			ID:          l.ID,
			Name:        l.Name,
			Description: l.Description,
			NextAccount: l.AccountSequence().Next(),
			Accounts:    []accountMeta{},
		}
		for k := 0; k < l.AccountCount(); k++ {
			a, err := l.Account(k)
			if err != nil {
				return err
			}
			name := accountTableName(l.ID, a.ID)
			lm.Accounts = append(lm.Accounts, accountMeta{ID: a.ID, Name: a.Name, Description: a.Description, Table: name})
			tables[name] = a.Table()
			order = append(order, name)
		}
		m.Ledgers = append(m.Ledgers, lm)
	}

	for i := 0; i < b.JournalCount(); i++ {
		j, err := b.Journal(i)
		if err != nil {
			return err
		}
		name := journalTableName(j.ID)
		jm := journalMeta{
			ID:          j.ID,
			Name:        j.Name,
			Description: j.Description,
			NextEntry:   j.EntrySequence().Next(),
			Table:       name,
			Entries:     []entryMeta{},
		}
		for k := 0; k < j.EntryCount(); k++ {
			e, err := j.Entry(k)
			if err != nil {
				return err
			}
			jm.Entries = append(jm.Entries, entryMeta{ID: e.ID, Name: e.Name, Description: e.Description, Date: e.Date})
		}
		tables[name] = j.Table()
		order = append(order, name)
		m.Journals = append(m.Journals, jm)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	f, err := zw.Create(manifestName)
	if err != nil {
		return fmt.Errorf("creating %s: %w", manifestName, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", manifestName, err)
	}

	for _, name := range order {
		f, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("creating %s: %w", name, err)
		}
		if err := WriteTable(f, tables[name]); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return zw.Close()
}

// Load reads a book from a zip archive of the given size.
func Load(r io.ReaderAt, size int64) (*book.Book, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	var m manifest
	if err := readJSON(files, manifestName, &m); err != nil {
		return nil, err
	}
	if m.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, m.Version)
	}

	b := book.New()
	b.Description = m.Description

	if err := b.ResizeLedgers(len(m.Ledgers)); err != nil {
		return nil, err
	}
	for i, lm := range m.Ledgers {
		l, _ := b.Ledger(i)
		l.ID, l.Name, l.Description = lm.ID, lm.Name, lm.Description
		if err := l.ResizeAccounts(len(lm.Accounts)); err != nil {
			return nil, err
		}
		for k, am := range lm.Accounts {
			a, _ := l.Account(k)
			a.ID, a.Name, a.Description = am.ID, am.Name, am.Description
			if err := readTable(files, am.Table, a.Table()); err != nil {
				return nil, err
			}
		}
		*l.AccountSequence() = id.NewSequence(lm.NextAccount)
	}

	if err := b.ResizeJournals(len(m.Journals)); err != nil {
		return nil, err
	}
	for i, jm := range m.Journals {
		j, _ := b.Journal(i)
		j.ID, j.Name, j.Description = jm.ID, jm.Name, jm.Description
		if err := j.ResizeEntries(len(jm.Entries)); err != nil {
			return nil, err
		}
		for k, em := range jm.Entries {
			e, _ := j.Entry(k)
			e.ID, e.Name, e.Description, e.Date = em.ID, em.Name, em.Description, em.Date
		}
		if err := readTable(files, jm.Table, j.Table()); err != nil {
			return nil, err
		}
		*j.EntrySequence() = id.NewSequence(jm.NextEntry)
	}

	*b.LedgerSequence() = id.NewSequence(m.NextLedger)
	*b.JournalSequence() = id.NewSequence(m.NextJournal)
	return b, nil
}

func readJSON(files map[string]*zip.File, name string, v any) error {
	f, ok := files[name]
	if !ok {
		return fmt.Errorf("%w: missing %s", ErrFormat, name)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer rc.Close()
	if err := json.NewDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("%w: decoding %s: %w", ErrFormat, name, err)
	}
	return nil
}

func readTable(files map[string]*zip.File, name string, t *table.Table) error {
	f, ok := files[name]
	if !ok {
		return fmt.Errorf("%w: missing %s", ErrFormat, name)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer rc.Close()
	if err := ReadTable(rc, t); err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	return nil
}

// SaveFile writes b to path. The archive is written to a temporary file in
// the same directory and renamed into place.
func SaveFile(path string, b *book.Book) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".ledgerbook-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := Save(tmp, b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("saving %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("saving %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}

// LoadFile reads the book stored at path.
func LoadFile(path string) (*book.Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	b, err := Load(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return b, nil
}

// Exists reports whether a book file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
