package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/archive"
	"github.com/cleared-dev/ledgerbook/internal/chart"
	"github.com/cleared-dev/ledgerbook/internal/config"
	"github.com/cleared-dev/ledgerbook/internal/gitops"
	"github.com/cleared-dev/ledgerbook/internal/id"
)

type initFlags struct {
	description string
	template    string
	git         bool
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledgerbook project",
		Long: `Create ledgerbook.yaml, the import inbox and a book laid out by a chart
template. Available templates: ` + strings.Join(chart.Names(), ", ") + ".",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, flags)
		},
	}

	cmd.Flags().StringVar(&flags.description, "description", "", "book description")
	cmd.Flags().StringVarP(&flags.template, "template", "t", chart.DefaultTemplate, "chart template")
	cmd.Flags().BoolVar(&flags.git, "git", false, "initialize a git repository and commit the new book")

	return cmd
}

func runInit(dir string, flags *initFlags) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	b, err := chart.NewBook(flags.template, flags.description)
	if err != nil {
		return err
	}

	for _, d := range []string{"logs", "import", filepath.Join("import", "processed")} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default()
	cfg.Git.AutoCommit = flags.git
	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}
	if err := archive.SaveFile(cfg.BookPath(dir), b); err != nil {
		return err
	}

	gitignore := ".ledgerbook-*.tmp\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	p := &project{dir: dir, cfg: cfg, book: b}
	var hash string
	if flags.git {
		if err := gitops.Init(dir); err != nil {
			return err
		}
		repo := &gitops.Repo{Dir: dir, AuthorName: cfg.Git.AuthorName, AuthorEmail: cfg.Git.AuthorEmail}
		if hash, err = repo.Commit("init: " + flags.template); err != nil {
			return fmt.Errorf("initial commit: %w", err)
		}
	}
	if err := p.record("init", "create_book", flags.template, id.Unassigned, hash); err != nil {
		return err
	}

	pterm.Success.Printf("Initialized ledgerbook project at %s (%d ledgers, %d journals)\n",
		dir, b.LedgerCount(), b.JournalCount())
	return nil
}
