package commands

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/id"
	"github.com/cleared-dev/ledgerbook/internal/importer"
	"github.com/cleared-dev/ledgerbook/internal/path"
)

type importFlags struct {
	format  string
	journal string
	bank    string
	contra  string
}

func newImportCommand(opts *options) *cobra.Command {
	flags := &importFlags{}
	registry := importer.DefaultRegistry()

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Post bank exports waiting in the import/ inbox",
		Long: `Parse every CSV file in import/, post one balanced entry per row and move
the file to import/processed/. Rows already posted under the same reference
are skipped. Formats: ` + strings.Join(registry.Formats(), ", ") + `.
Flags left empty fall back to the import section of ledgerbook.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts.dir)
			if err != nil {
				return err
			}
			return runImport(p, registry, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "bank export format")
	cmd.Flags().StringVarP(&flags.journal, "journal", "j", "", "journal path to post into")
	cmd.Flags().StringVar(&flags.bank, "bank", "", "account path the export belongs to")
	cmd.Flags().StringVar(&flags.contra, "contra", "", "account path for the other side of each row")

	return cmd
}

func runImport(p *project, registry *importer.Registry, flags *importFlags) error {
	def := p.cfg.Import
	format := orDefault(flags.format, def.Format)
	parser := registry.Get(format)
	if parser == nil {
		return fmt.Errorf("unknown import format %q (have %s)", format, strings.Join(registry.Formats(), ", "))
	}

	journal := orDefault(flags.journal, def.Journal)
	loc, err := p.resolve(journal, path.KindJournal)
	if err != nil {
		return err
	}
	mapping := importer.Mapping{
		Journal: loc.Indices[0],
		Bank:    orDefault(flags.bank, def.Bank),
		Contra:  orDefault(flags.contra, def.Contra),
	}
	resolver := path.NewResolver()
	// Fail before touching any file when the mapping names a missing account.
	for _, acct := range []string{mapping.Bank, mapping.Contra} {
		if _, _, err := resolver.ResolveAccount(p.book, acct); err != nil {
			return err
		}
	}

	inbox := importer.NewInbox(p.dir)
	files, err := inbox.Scan()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		pterm.Info.Println("No files to import")
		return nil
	}

	for _, f := range files {
		rows, err := importer.ParseFile(parser, f.Path)
		if err != nil {
			return err
		}
		res, postErr := importer.Post(p.book, rows, mapping, resolver)
		if len(res.Receipts) > 0 {
			last := res.Receipts[len(res.Receipts)-1].EntryID
			details := fmt.Sprintf("%s, %d entries, %d skipped", f.Name, len(res.Receipts), len(res.Skipped))
			if err := p.save("import", "import_file", details, last); err != nil {
				return err
			}
		}
		if postErr != nil {
			return fmt.Errorf("importing %s: %w", f.Name, postErr)
		}
		if err := inbox.MarkProcessed(f.Name); err != nil {
			return err
		}
		if len(res.Receipts) == 0 {
			if err := p.record("import", "import_file", f.Name+", nothing new", id.Unassigned, ""); err != nil {
				return err
			}
		}
		pterm.Success.Printf("%s: posted %d, skipped %d\n", f.Name, len(res.Receipts), len(res.Skipped))
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
