package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/book"
	"github.com/cleared-dev/ledgerbook/internal/path"
)

type postFlags struct {
	journal     string
	date        string
	name        string
	description string
	check       string
}

func newPostCommand(opts *options) *cobra.Command {
	flags := &postFlags{}

	cmd := &cobra.Command{
		Use:   "post <account-path>=<amount>...",
		Short: "Post a balanced transaction",
		Long: `Post a transaction to a journal. Each argument is one line: an account path
and a signed amount, positive for a debit and negative for a credit. The amounts
must sum to zero.

  ledgerbook post /ledger:expenses/account:food=12.34 /ledger:assets/account:checking=-12.34`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts.dir)
			if err != nil {
				return err
			}
			return runPost(p, flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.journal, "journal", "j", "/journal:general", "journal path")
	cmd.Flags().StringVar(&flags.date, "date", "", "entry date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&flags.name, "name", "n", "", "entry name")
	cmd.Flags().StringVarP(&flags.description, "description", "d", "", "entry description")
	cmd.Flags().StringVar(&flags.check, "check", "", "check number recorded on every line")

	return cmd
}

func runPost(p *project, flags *postFlags, args []string) error {
	loc, err := p.resolve(flags.journal, path.KindJournal)
	if err != nil {
		return err
	}

	tx := book.NewTransaction(loc.Indices[0])
	tx.Name = flags.name
	tx.Description = flags.description
	tx.Date = flags.date
	if tx.Date == "" {
		tx.Date = time.Now().Format(book.DateFormat)
	}

	for _, arg := range args {
		line, err := parseLine(p, arg)
		if err != nil {
			return err
		}
		line.Check = flags.check
		if err := tx.AddLine(line); err != nil {
			return err
		}
	}

	balanced, err := book.CheckBalance(tx)
	if err != nil {
		return err
	}
	if !balanced {
		total, err := tx.Total()
		if err != nil {
			return err
		}
		return fmt.Errorf("%w: transaction does not balance (off by %s)", book.ErrInvalid, p.format(total))
	}
	if verrs := book.ValidateTransaction(tx); len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, v := range verrs {
			errs[i] = v
		}
		return fmt.Errorf("%w: %w", book.ErrInvalid, errors.Join(errs...))
	}

	receipt, err := p.book.Commit(tx, path.NewResolver())
	if err != nil {
		return err
	}

	details := fmt.Sprintf("%d lines", receipt.Lines)
	if tx.Name != "" {
		details = tx.Name + ", " + details
	}
	if err := p.save("post", "commit_transaction", details, receipt.EntryID); err != nil {
		return err
	}
	pterm.Success.Printf("Posted entry #%d to %s (%d lines)\n", receipt.EntryID, flags.journal, receipt.Lines)
	return nil
}

// parseLine splits "path=amount". The last '=' separates the amount so
// account names may contain one.
func parseLine(p *project, arg string) (book.Line, error) {
	i := strings.LastIndexByte(arg, '=')
	if i <= 0 || i == len(arg)-1 {
		return book.Line{}, fmt.Errorf("%w: line %q is not <account-path>=<amount>", book.ErrInvalid, arg)
	}
	amount, err := p.amount(arg[i+1:])
	if err != nil {
		return book.Line{}, fmt.Errorf("%w: %w", book.ErrInvalid, err)
	}
	return book.Line{Path: arg[:i], Amount: amount, Ledger: -1, Account: -1}, nil
}
