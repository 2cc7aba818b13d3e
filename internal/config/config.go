// Package config reads the ledgerbook.yaml project file and applies
// environment overrides from the process and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/ledgerbook/internal/bignum"
)

// FileName is the project config file looked up in the project directory.
const FileName = "ledgerbook.yaml"

// EnvFile is the optional dotenv file next to the config.
const EnvFile = ".env"

// Config represents the top-level ledgerbook.yaml configuration.
type Config struct {
	Book    string        `yaml:"book"`
	Amounts AmountsConfig `yaml:"amounts"`
	Audit   AuditConfig   `yaml:"audit"`
	Git     GitConfig     `yaml:"git"`
	Import  ImportConfig  `yaml:"import"`
}

// AmountsConfig controls how decimal amounts are allocated and shown.
type AmountsConfig struct {
	Digits   int  `yaml:"digits"` // base-100 digits
	Point    int  `yaml:"point"`  // base-100 fractional digits
	ShowPlus bool `yaml:"show_plus"`
}

// AuditConfig controls the activity log.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// ImportConfig holds defaults for the import command.
type ImportConfig struct {
	Format  string `yaml:"format"`
	Journal string `yaml:"journal"` // journal path, e.g. /journal:bank
	Bank    string `yaml:"bank"`    // account path the export belongs to
	Contra  string `yaml:"contra"`  // account path for the other side
}

// Load reads a ledgerbook.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Book: "book.ledgerbook",
		Amounts: AmountsConfig{
			Digits: 10,
			Point:  1,
		},
		Audit: AuditConfig{
			Enabled: true,
			Path:    "logs/activity.csv",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "ledgerbook",
			AuthorEmail: "ledgerbook@localhost",
		},
		Import: ImportConfig{
			Format:  "chase",
			Journal: "/journal:bank",
			Bank:    "/ledger:assets/account:checking",
			Contra:  "/ledger:expenses/account:uncategorized",
		},
	}
}

// LoadProject reads dir/ledgerbook.yaml and applies overrides. Process
// environment variables win over dir/.env, which wins over the file.
func LoadProject(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		return nil, err
	}

	dotenv, err := godotenv.Read(filepath.Join(dir, EnvFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", EnvFile, err)
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"LEDGERBOOK_BOOK":             &c.Book,
		"LEDGERBOOK_AUDIT_PATH":       &c.Audit.Path,
		"LEDGERBOOK_GIT_AUTHOR_NAME":  &c.Git.AuthorName,
		"LEDGERBOOK_GIT_AUTHOR_EMAIL": &c.Git.AuthorEmail,
		"LEDGERBOOK_IMPORT_FORMAT":    &c.Import.Format,
		"LEDGERBOOK_IMPORT_JOURNAL":   &c.Import.Journal,
		"LEDGERBOOK_IMPORT_BANK":      &c.Import.Bank,
		"LEDGERBOOK_IMPORT_CONTRA":    &c.Import.Contra,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"LEDGERBOOK_SHOW_PLUS":       &c.Amounts.ShowPlus,
		"LEDGERBOOK_AUDIT":           &c.Audit.Enabled,
		"LEDGERBOOK_GIT_AUTO_COMMIT": &c.Git.AutoCommit,
	}
	for key, dst := range bools {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = b
	}
	return nil
}

// Validate checks values that would otherwise fail much later.
func (c *Config) Validate() error {
	if c.Book == "" {
		return errors.New("config: book file name is empty")
	}
	if _, err := bignum.New(c.Amounts.Digits, c.Amounts.Point); err != nil {
		return fmt.Errorf("config: amounts: %w", err)
	}
	return nil
}

// BookPath returns the book file location for a project rooted at dir.
func (c *Config) BookPath(dir string) string {
	if filepath.IsAbs(c.Book) {
		return c.Book
	}
	return filepath.Join(dir, c.Book)
}

// AuditPath returns the activity log location for a project rooted at dir.
func (c *Config) AuditPath(dir string) string {
	if filepath.IsAbs(c.Audit.Path) {
		return c.Audit.Path
	}
	return filepath.Join(dir, c.Audit.Path)
}
