package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newBalanceCommand(opts *options) *cobra.Command {
	var nonzero bool

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print the trial balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts.dir)
			if err != nil {
				return err
			}
			return runBalance(p, nonzero)
		},
	}

	cmd.Flags().BoolVar(&nonzero, "nonzero", false, "hide accounts with a zero balance")

	return cmd
}

func runBalance(p *project, nonzero bool) error {
	lines, total, err := p.book.TrialBalance()
	if err != nil {
		return err
	}

	data := pterm.TableData{{"account", "balance"}}
	for _, l := range lines {
		if nonzero && l.Balance.IsZero() {
			continue
		}
		data = append(data, []string{l.Path, p.format(l.Balance)})
	}
	data = append(data, []string{"total", p.format(total)})

	pterm.DefaultSection.Println("Trial balance")
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	if !total.IsZero() {
		pterm.Warning.Printf("Book is out of balance by %s\n", p.format(total))
	}
	return nil
}
