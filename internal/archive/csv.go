package archive

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cleared-dev/ledgerbook/internal/table"
)

// WriteTable writes t as CSV. The first record lists the column kinds; each
// following record is one row. Null strings are written as empty fields.
func WriteTable(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	kinds := t.Columns()
	header := make([]string, len(kinds))
	for i, k := range kinds {
		header[i] = k.String()
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	rowNum := 1
	err := t.Each(func(m table.Mark) error {
		rowNum++
		cells, err := t.Row(m)
		if err != nil {
			return err
		}
		if err := cw.Write(MarshalRow(cells)); err != nil {
			return fmt.Errorf("writing row %d: %w", rowNum, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// ReadTable replaces the rows of t with those read from r. The kinds in the
// CSV header must match t's schema.
func ReadTable(r io.Reader, t *table.Table) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return fmt.Errorf("reading table CSV: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: missing header", ErrFormat)
	}

	kinds, err := parseHeader(records[0])
	if err != nil {
		return err
	}
	if !sameKinds(kinds, t.Columns()) {
		return fmt.Errorf("%w: columns %v, want %v", ErrSchema, kinds, t.Columns())
	}

	// Resetting the schema drops any existing rows.
	if err := t.SetColumnTypes(kinds...); err != nil {
		return err
	}
	for i, rec := range records[1:] {
		cells, err := UnmarshalRow(kinds, rec)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		m, err := t.AppendRow()
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		for col, c := range cells {
			if err := t.Put(m, col, c); err != nil {
				return fmt.Errorf("row %d: %w", i+2, err)
			}
		}
	}
	return nil
}

// MarshalRow converts a row's cells to CSV fields.
func MarshalRow(cells []table.Cell) []string {
	rec := make([]string, len(cells))
	for i, c := range cells {
		rec[i] = c.Text()
	}
	return rec
}

// UnmarshalRow converts CSV fields to cells of the given kinds.
func UnmarshalRow(kinds []table.Kind, record []string) ([]table.Cell, error) {
	if len(record) != len(kinds) {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", ErrFormat, len(kinds), len(record))
	}
	cells := make([]table.Cell, len(kinds))
	for i, k := range kinds {
		c, err := table.ParseCell(k, record[i])
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		cells[i] = c
	}
	return cells, nil
}

func parseHeader(rec []string) ([]table.Kind, error) {
	kinds := make([]table.Kind, len(rec))
	for i, s := range rec {
		k, err := table.ParseKind(s)
		if err != nil {
			return nil, fmt.Errorf("%w: header column %d: %w", ErrFormat, i, err)
		}
		kinds[i] = k
	}
	return kinds, nil
}

func sameKinds(a, b []table.Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
