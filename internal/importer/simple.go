package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SimpleParser reads a minimal three-column export: date (YYYY-MM-DD),
// description, signed amount. Columns are located by header name.
type SimpleParser struct{}

// Format returns the parser name.
func (p *SimpleParser) Format() string { return "simple" }

// Parse reads the CSV and returns one row per record after the header.
func (p *SimpleParser) Parse(r io.Reader) ([]BankRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading simple CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	cols := map[string]int{}
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range []string{"date", "description", "amount"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("simple CSV: missing %q column", name)
		}
	}

	var rows []BankRow
	for i, rec := range records[1:] {
		date, err := time.Parse(dateFormat, rec[cols["date"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing date %q: %w", i+2, rec[cols["date"]], err)
		}
		amount, err := decimal.NewFromString(rec[cols["amount"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", i+2, rec[cols["amount"]], err)
		}
		desc := rec[cols["description"]]
		rows = append(rows, BankRow{
			Date:        date,
			Description: desc,
			Amount:      amount,
			Reference:   reference("simple", date, desc),
		})
	}
	return rows, nil
}
