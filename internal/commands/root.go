package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/buildinfo"
)

// options holds flags shared by every subcommand.
type options struct {
	dir string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "ledgerbook",
		Short:   "Personal double-entry bookkeeping",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.dir, "dir", "C", ".", "project directory")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newLedgerCommand(opts))
	rootCmd.AddCommand(newAccountCommand(opts))
	rootCmd.AddCommand(newJournalCommand(opts))
	rootCmd.AddCommand(newPostCommand(opts))
	rootCmd.AddCommand(newSelectCommand(opts))
	rootCmd.AddCommand(newShowCommand(opts))
	rootCmd.AddCommand(newBalanceCommand(opts))
	rootCmd.AddCommand(newImportCommand(opts))
	rootCmd.AddCommand(newLogCommand(opts))

	return rootCmd
}
