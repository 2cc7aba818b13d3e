package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/book"
	"github.com/cleared-dev/ledgerbook/internal/path"
	"github.com/cleared-dev/ledgerbook/internal/table"
)

var (
	accountHeader = []string{"journal", "entry", "amount", "check", "date"}
	journalHeader = []string{"entry", "ledger", "account", "amount", "check", "date"}
)

type selectFlags struct {
	where   []string
	reverse bool
	limit   int
}

func newSelectCommand(opts *options) *cobra.Command {
	flags := &selectFlags{}

	cmd := &cobra.Command{
		Use:   "select <account-or-journal-path>",
		Short: "List the posting rows of an account or journal",
		Long: `List the rows of an account or journal table that match every --where
predicate. A predicate is "<column> <op> <value>" where column is a name or a
0-based number and op is one of == != < <= > >=.

  ledgerbook select /ledger:expenses/account:food --where "amount > 50" --reverse`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts.dir)
			if err != nil {
				return err
			}
			return runSelect(p, args[0], flags)
		},
	}

	cmd.Flags().StringArrayVarP(&flags.where, "where", "w", nil, "predicate, may be repeated")
	cmd.Flags().BoolVarP(&flags.reverse, "reverse", "r", false, "scan last row first")
	cmd.Flags().IntVarP(&flags.limit, "limit", "n", 0, "stop after this many rows (0 = all)")

	return cmd
}

func runSelect(p *project, target string, flags *selectFlags) error {
	t, header, err := p.postingTable(target)
	if err != nil {
		return err
	}

	preds := make([]table.Predicate, 0, len(flags.where))
	for _, w := range flags.where {
		pred, err := parsePredicate(t, header, w)
		if err != nil {
			return err
		}
		preds = append(preds, pred)
	}

	dir := table.Forward
	if flags.reverse {
		dir = table.Reverse
	}

	data := pterm.TableData{append([]string{"#"}, header...)}
	var rowErr error
	_, err = table.Select(t, preds, dir, func(m table.Mark) int {
		cells, err := t.Row(m)
		if err != nil {
			rowErr = err
			return 1
		}
		data = append(data, append([]string{strconv.Itoa(m.Position())}, p.cellTexts(cells)...))
		if flags.limit > 0 && len(data)-1 >= flags.limit {
			return 1
		}
		return 0
	})
	if err != nil {
		return err
	}
	if rowErr != nil {
		return rowErr
	}

	if len(data) == 1 {
		pterm.Info.Println("No matching rows")
		return nil
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("Total: %d rows\n", len(data)-1)
	return nil
}

// postingTable returns the table behind an account or journal path and its
// column names.
func (p *project) postingTable(target string) (*table.Table, []string, error) {
	loc, err := path.Resolve(p.book, target, path.Root)
	if err != nil {
		return nil, nil, err
	}
	switch loc.Kind {
	case path.KindAccount:
		l, err := p.book.Ledger(loc.Indices[0])
		if err != nil {
			return nil, nil, err
		}
		a, err := l.Account(loc.Indices[1])
		if err != nil {
			return nil, nil, err
		}
		return a.Table(), accountHeader, nil
	case path.KindJournal:
		j, err := p.book.Journal(loc.Indices[0])
		if err != nil {
			return nil, nil, err
		}
		return j.Table(), journalHeader, nil
	}
	return nil, nil, fmt.Errorf("%w: %q is a %s, not an account or journal", path.ErrWrongKind, target, loc.Kind)
}

// parsePredicate reads "<column> <op> <value>". Spaces around the operator
// are optional.
func parsePredicate(t *table.Table, header []string, s string) (table.Predicate, error) {
	at := strings.IndexAny(s, "=!<>")
	if at < 0 {
		return table.Predicate{}, fmt.Errorf("%w: predicate %q has no operator", book.ErrInvalid, s)
	}
	end := at + 1
	if end < len(s) && s[end] == '=' {
		end++
	}
	op, err := table.ParseOp(s[at:end])
	if err != nil {
		return table.Predicate{}, fmt.Errorf("predicate %q: %w", s, err)
	}

	name := strings.TrimSpace(s[:at])
	col := -1
	for i, h := range header {
		if h == name {
			col = i
		}
	}
	if col < 0 {
		if col, err = strconv.Atoi(name); err != nil {
			return table.Predicate{}, fmt.Errorf("%w: predicate %q: unknown column %q", book.ErrInvalid, s, name)
		}
	}
	kind, err := t.ColumnKind(col)
	if err != nil {
		return table.Predicate{}, fmt.Errorf("predicate %q: %w", s, err)
	}

	return table.Predicate{
		Kind:    kind,
		Op:      op,
		Column:  col,
		Literal: strings.TrimSpace(s[end:]),
	}, nil
}

func (p *project) cellTexts(cells []table.Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		if c.Kind() == table.KindDecimal {
			n, err := c.Decimal()
			if err == nil {
				out[i] = p.format(n)
				continue
			}
		}
		out[i] = c.Text()
	}
	return out
}
