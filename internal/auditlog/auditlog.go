// Package auditlog keeps an append-only CSV record of every command that
// changed a book.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cleared-dev/ledgerbook/internal/id"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp  time.Time
	Command    string
	Action     string
	Details    string
	EntryID    int // id.Unassigned when the action did not post an entry
	CommitHash string
}

// Header lists the activity log columns.
var Header = []string{"timestamp", "command", "action", "details", "entry_id", "commit_hash"}

// DefaultPath is the log location relative to the project root.
const DefaultPath = "logs/activity.csv"

const (
	numFields     = 6
	colTimestamp  = 0
	colCommand    = 1
	colAction     = 2
	colDetails    = 3
	colEntryID    = 4
	colCommitHash = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colCommand] = e.Command
	row[colAction] = e.Action
	row[colDetails] = e.Details
	if e.EntryID != id.Unassigned {
		row[colEntryID] = strconv.Itoa(e.EntryID)
	}
	row[colCommitHash] = e.CommitHash
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	entryID := id.Unassigned
	if s := record[colEntryID]; s != "" {
		if entryID, err = strconv.Atoi(s); err != nil {
			return Entry{}, fmt.Errorf("parsing entry_id %q: %w", s, err)
		}
	}

	return Entry{
		Timestamp:  ts,
		Command:    record[colCommand],
		Action:     record[colAction],
		Details:    record[colDetails],
		EntryID:    entryID,
		CommitHash: record[colCommitHash],
	}, nil
}

// Log is an activity log file.
type Log struct {
	Path string
	Now  func() time.Time
}

// New returns the log at DefaultPath under root.
func New(root string) *Log {
	return &Log{Path: filepath.Join(root, DefaultPath), Now: time.Now}
}

// Record appends one entry stamped with the current time.
func (l *Log) Record(command, action, details string, entryID int, commitHash string) error {
	return l.Append(Entry{
		Timestamp:  l.Now(),
		Command:    command,
		Action:     action,
		Details:    details,
		EntryID:    entryID,
		CommitHash: commitHash,
	})
}

// Append writes entries, creating the file and its header if needed.
func (l *Log) Append(entries ...Entry) error {
	if err := os.MkdirAll(filepath.Dir(l.Path), 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(l.Path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns every entry. A missing log has no entries.
func (l *Log) Read() ([]Entry, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

// Tail returns the last n entries, oldest first.
func (l *Log) Tail(n int) ([]Entry, error) {
	entries, err := l.Read()
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
