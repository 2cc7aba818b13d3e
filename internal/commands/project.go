package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cleared-dev/ledgerbook/internal/archive"
	"github.com/cleared-dev/ledgerbook/internal/auditlog"
	"github.com/cleared-dev/ledgerbook/internal/bignum"
	"github.com/cleared-dev/ledgerbook/internal/book"
	"github.com/cleared-dev/ledgerbook/internal/config"
	"github.com/cleared-dev/ledgerbook/internal/gitops"
	"github.com/cleared-dev/ledgerbook/internal/path"
)

// ErrNoProject is returned when the project directory has no config file.
var ErrNoProject = errors.New("not a ledgerbook project (run 'ledgerbook init')")

// project is an opened project directory: its config and its book.
type project struct {
	dir  string
	cfg  *config.Config
	book *book.Book
}

func openProject(dir string) (*project, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if _, err := os.Stat(filepath.Join(absDir, config.FileName)); errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoProject
	}
	cfg, err := config.LoadProject(absDir)
	if err != nil {
		return nil, err
	}
	b, err := archive.LoadFile(cfg.BookPath(absDir))
	if err != nil {
		return nil, err
	}
	return &project{dir: absDir, cfg: cfg, book: b}, nil
}

// save writes the book, commits it when git auto-commit is on, and records
// the change in the activity log.
func (p *project) save(command, action, details string, entryID int) error {
	bookPath := p.cfg.BookPath(p.dir)
	if err := archive.SaveFile(bookPath, p.book); err != nil {
		return err
	}

	var hash string
	if p.cfg.Git.AutoCommit && gitops.IsRepo(p.dir) {
		repo := &gitops.Repo{Dir: p.dir, AuthorName: p.cfg.Git.AuthorName, AuthorEmail: p.cfg.Git.AuthorEmail}
		rel, err := filepath.Rel(p.dir, bookPath)
		if err != nil {
			rel = bookPath
		}
		if hash, err = repo.Commit(fmt.Sprintf("%s: %s", command, details), rel); err != nil {
			return fmt.Errorf("committing book: %w", err)
		}
	}

	return p.record(command, action, details, entryID, hash)
}

func (p *project) record(command, action, details string, entryID int, hash string) error {
	if !p.cfg.Audit.Enabled {
		return nil
	}
	log := &auditlog.Log{Path: p.cfg.AuditPath(p.dir), Now: time.Now}
	if err := log.Record(command, action, details, entryID, hash); err != nil {
		return fmt.Errorf("writing activity log: %w", err)
	}
	return nil
}

// resolve resolves s from the book root and checks its kind.
func (p *project) resolve(s string, want path.Kind) (path.Location, error) {
	loc, err := path.Resolve(p.book, s, path.Root)
	if err != nil {
		return path.Location{}, err
	}
	if loc.Kind != want {
		return path.Location{}, fmt.Errorf("%w: %q is a %s, not a %s", path.ErrWrongKind, s, loc.Kind, want)
	}
	return loc, nil
}

// amount parses s at the configured precision.
func (p *project) amount(s string) (bignum.Number, error) {
	n, err := bignum.Parse(s)
	if err != nil {
		return bignum.Number{}, fmt.Errorf("amount %q: %w", s, err)
	}
	if err := n.Extend(p.cfg.Amounts.Digits, p.cfg.Amounts.Point); err != nil {
		return bignum.Number{}, fmt.Errorf("amount %q: %w", s, err)
	}
	return n, nil
}

// format renders n at no less than the configured precision.
func (p *project) format(n bignum.Number) string {
	_ = n.Extend(p.cfg.Amounts.Digits, p.cfg.Amounts.Point) // too wide: keep n's own precision
	return n.Format(p.cfg.Amounts.ShowPlus)
}
