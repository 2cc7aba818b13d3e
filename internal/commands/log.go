package commands

import (
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/auditlog"
	"github.com/cleared-dev/ledgerbook/internal/id"
)

func newLogCommand(opts *options) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts.dir)
			if err != nil {
				return err
			}
			log := &auditlog.Log{Path: p.cfg.AuditPath(p.dir), Now: time.Now}
			entries, err := log.Tail(count)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				pterm.Info.Println("No activity recorded")
				return nil
			}
			data := pterm.TableData{auditlog.Header}
			for _, e := range entries {
				data = append(data, []string{
					e.Timestamp.Local().Format(time.DateTime),
					e.Command,
					e.Action,
					e.Details,
					id.Format(e.EntryID),
					e.CommitHash,
				})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 20, "number of entries (negative = all)")

	return cmd
}
