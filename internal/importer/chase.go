package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const chaseDateFormat = "01/02/2006"

// chaseLayout maps the fields a BankRow needs to header names. Chase
// checking and credit card exports name their columns differently.
type chaseLayout struct {
	date, desc, amount, kind, check string
}

var chaseLayouts = []chaseLayout{
	// Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #
	{date: "posting date", desc: "description", amount: "amount", kind: "type", check: "check or slip #"},
	// Transaction Date,Post Date,Description,Category,Type,Amount,Memo
	{date: "transaction date", desc: "description", amount: "amount", kind: "type"},
}

// ChaseParser parses Chase checking and credit card CSV exports. The layout
// is picked from the header row.
type ChaseParser struct{}

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV.
func (p *ChaseParser) Parse(r io.Reader) ([]BankRow, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols, err := chaseColumns(records[0])
	if err != nil {
		return nil, err
	}

	var rows []BankRow
	for i, rec := range records[1:] {
		row, err := cols.parse(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// chaseCols holds column positions; check is -1 when the layout has none.
type chaseCols struct {
	date, desc, amount, kind, check int
}

func chaseColumns(header []string) (chaseCols, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.ToLower(strings.TrimSpace(h))] = i
	}
	find := func(name string) int {
		if i, ok := pos[name]; ok && name != "" {
			return i
		}
		return -1
	}

	for _, l := range chaseLayouts {
		c := chaseCols{date: find(l.date), desc: find(l.desc), amount: find(l.amount), kind: find(l.kind), check: find(l.check)}
		if c.date >= 0 && c.desc >= 0 && c.amount >= 0 {
			return c, nil
		}
	}
	return chaseCols{}, fmt.Errorf("chase CSV: unrecognized header %q", strings.Join(header, ","))
}

func (c chaseCols) parse(rec []string) (BankRow, error) {
	date, err := time.Parse(chaseDateFormat, rec[c.date])
	if err != nil {
		return BankRow{}, fmt.Errorf("parsing date %q: %w", rec[c.date], err)
	}
	amount, err := decimal.NewFromString(rec[c.amount])
	if err != nil {
		return BankRow{}, fmt.Errorf("parsing amount %q: %w", rec[c.amount], err)
	}

	row := BankRow{
		Date:        date,
		Description: rec[c.desc],
		Amount:      amount,
		Reference:   reference("chase", date, rec[c.desc]),
	}
	if c.kind >= 0 {
		row.Type = rec[c.kind]
	}
	if c.check >= 0 {
		row.Check = strings.TrimSpace(rec[c.check])
	}
	return row, nil
}
