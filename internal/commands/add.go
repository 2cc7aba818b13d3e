package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/id"
	"github.com/cleared-dev/ledgerbook/internal/path"
)

func newLedgerCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Manage ledgers",
	}
	cmd.AddCommand(newAddCommand(opts, "ledger", "add <name>", cobra.ExactArgs(1), addLedger))
	return cmd
}

func newAccountCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newAddCommand(opts, "account", "add <ledger-path> <name>", cobra.ExactArgs(2), addAccount))
	return cmd
}

func newJournalCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Manage journals",
	}
	cmd.AddCommand(newAddCommand(opts, "journal", "add <name>", cobra.ExactArgs(1), addJournal))
	return cmd
}

// adder creates one object and returns its path and identifier.
type adder func(p *project, args []string, description string) (string, int, error)

func newAddCommand(opts *options, noun, use string, args cobra.PositionalArgs, add adder) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   use,
		Short: "Add a " + noun,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts.dir)
			if err != nil {
				return err
			}
			where, v, err := add(p, args, description)
			if err != nil {
				return err
			}
			if err := p.save(noun, "add_"+noun, where, id.Unassigned); err != nil {
				return err
			}
			pterm.Success.Printf("Added %s %s (id %s)\n", noun, where, id.Format(v))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", noun+" description")

	return cmd
}

func addLedger(p *project, args []string, description string) (string, int, error) {
	if _, err := p.book.LedgerIndexByName(args[0]); err == nil {
		return "", 0, fmt.Errorf("ledger %q already exists", args[0])
	}
	l, _, err := p.book.AddLedger(args[0], description)
	if err != nil {
		return "", 0, err
	}
	return "/ledger:" + l.Name, l.ID, nil
}

func addJournal(p *project, args []string, description string) (string, int, error) {
	if _, err := p.book.JournalIndexByName(args[0]); err == nil {
		return "", 0, fmt.Errorf("journal %q already exists", args[0])
	}
	j, _, err := p.book.AddJournal(args[0], description)
	if err != nil {
		return "", 0, err
	}
	return "/journal:" + j.Name, j.ID, nil
}

func addAccount(p *project, args []string, description string) (string, int, error) {
	loc, err := p.resolve(args[0], path.KindLedger)
	if err != nil {
		return "", 0, err
	}
	l, err := p.book.Ledger(loc.Indices[0])
	if err != nil {
		return "", 0, err
	}
	if _, err := l.AccountIndexByName(args[1]); err == nil {
		return "", 0, fmt.Errorf("account %q already exists in %s", args[1], args[0])
	}
	a, ai, err := l.AddAccount(args[1], description)
	if err != nil {
		return "", 0, err
	}
	where := path.Location{Kind: path.KindAccount, Indices: [2]int{loc.Indices[0], ai}}.String()
	if l.Name != "" {
		where = fmt.Sprintf("/ledger:%s/account:%s", l.Name, a.Name)
	}
	return where, a.ID, nil
}
