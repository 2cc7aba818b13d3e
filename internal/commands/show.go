package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/book"
	"github.com/cleared-dev/ledgerbook/internal/path"
	"github.com/cleared-dev/ledgerbook/internal/table"
)

func newShowCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [path]",
		Short: "Show the book or one ledger, account, journal or entry",
		Long: `Show the object at path. Paths are made of word:name, word#id and word@index
segments, for example /ledger:assets/account:checking or /journal#1/entry@0.
Without a path the whole book is shown as a tree.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts.dir)
			if err != nil {
				return err
			}
			target := "/"
			if len(args) > 0 {
				target = args[0]
			}
			return runShow(p, target)
		},
	}
	return cmd
}

func runShow(p *project, target string) error {
	loc, err := path.Resolve(p.book, target, path.Root)
	if err != nil {
		return err
	}
	switch loc.Kind {
	case path.KindLedger:
		return p.showLedger(loc)
	case path.KindAccount, path.KindJournal:
		pterm.DefaultSection.Println(loc.String())
		if loc.Kind == path.KindJournal {
			if err := p.showEntries(loc); err != nil {
				return err
			}
		}
		return runSelect(p, target, &selectFlags{})
	case path.KindEntry:
		return p.showEntry(loc)
	default:
		return p.showBook()
	}
}

func (p *project) showBook() error {
	ledgers := pterm.TreeNode{Text: "ledgers"}
	for li := 0; li < p.book.LedgerCount(); li++ {
		l, err := p.book.Ledger(li)
		if err != nil {
			return err
		}
		node := pterm.TreeNode{Text: label("ledger", li, l.ID, l.Name)}
		for ai := 0; ai < l.AccountCount(); ai++ {
			a, err := l.Account(ai)
			if err != nil {
				return err
			}
			bal, err := a.Balance()
			if err != nil {
				return err
			}
			node.Children = append(node.Children, pterm.TreeNode{
				Text: fmt.Sprintf("%s | %s", label("account", ai, a.ID, a.Name), pterm.Green(p.format(bal))),
			})
		}
		ledgers.Children = append(ledgers.Children, node)
	}

	journals := pterm.TreeNode{Text: "journals"}
	for ji := 0; ji < p.book.JournalCount(); ji++ {
		j, err := p.book.Journal(ji)
		if err != nil {
			return err
		}
		journals.Children = append(journals.Children, pterm.TreeNode{
			Text: fmt.Sprintf("%s | %d entries", label("journal", ji, j.ID, j.Name), j.EntryCount()),
		})
	}

	root := pterm.TreeNode{Text: "book", Children: []pterm.TreeNode{ledgers, journals}}
	if p.book.Description != "" {
		root.Text = "book: " + p.book.Description
	}
	pterm.DefaultSection.Println("Book")
	return pterm.DefaultTree.WithRoot(root).Render()
}

func (p *project) showLedger(loc path.Location) error {
	l, err := p.book.Ledger(loc.Indices[0])
	if err != nil {
		return err
	}
	data := pterm.TableData{{"@", "id", "name", "description", "balance"}}
	for ai := 0; ai < l.AccountCount(); ai++ {
		a, err := l.Account(ai)
		if err != nil {
			return err
		}
		bal, err := a.Balance()
		if err != nil {
			return err
		}
		data = append(data, []string{strconv.Itoa(ai), strconv.Itoa(a.ID), a.Name, a.Description, p.format(bal)})
	}
	pterm.DefaultSection.Println(label("ledger", loc.Indices[0], l.ID, l.Name))
	if l.Description != "" {
		pterm.Info.Println(l.Description)
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func (p *project) showEntries(loc path.Location) error {
	j, err := p.book.Journal(loc.Indices[0])
	if err != nil {
		return err
	}
	data := pterm.TableData{{"@", "id", "name", "date", "description"}}
	for ei := 0; ei < j.EntryCount(); ei++ {
		e, err := j.Entry(ei)
		if err != nil {
			return err
		}
		data = append(data, []string{strconv.Itoa(ei), strconv.Itoa(e.ID), e.Name, e.Date, e.Description})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// showEntry prints an entry and the journal rows posted under it.
func (p *project) showEntry(loc path.Location) error {
	j, err := p.book.Journal(loc.Indices[0])
	if err != nil {
		return err
	}
	e, err := j.Entry(loc.Indices[1])
	if err != nil {
		return err
	}

	pterm.DefaultSection.Println(label("entry", loc.Indices[1], e.ID, e.Name))
	info := pterm.TableData{
		{"Journal", label("journal", loc.Indices[0], j.ID, j.Name)},
		{"Date", e.Date},
		{"Description", e.Description},
	}
	if err := pterm.DefaultTable.WithData(info).Render(); err != nil {
		return err
	}

	t := j.Table()
	pred := table.Predicate{Kind: table.KindID, Op: table.OpEq, Column: book.JournalColEntry, Literal: strconv.Itoa(e.ID)}
	data := pterm.TableData{journalHeader}
	var rowErr error
	if _, err := table.Select(t, []table.Predicate{pred}, table.Forward, func(m table.Mark) int {
		cells, err := t.Row(m)
		if err != nil {
			rowErr = err
			return 1
		}
		data = append(data, p.cellTexts(cells))
		return 0
	}); err != nil {
		return err
	}
	if rowErr != nil {
		return rowErr
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func label(word string, index, v int, name string) string {
	if name == "" {
		return fmt.Sprintf("%s@%d (#%d)", word, index, v)
	}
	return fmt.Sprintf("%s:%s (#%d)", word, name, v)
}
