// Package gitops records saved book files in a git repository.
package gitops

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNoGit is returned when the git binary cannot be found.
var ErrNoGit = errors.New("git not found in PATH")

// Repo is a working tree that commits are made in.
type Repo struct {
	Dir         string
	AuthorName  string
	AuthorEmail string
}

// Available reports whether a git binary is on PATH.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	if !Available() {
		return ErrNoGit
	}
	if _, err := run(dir, nil, "init", "--quiet"); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Commit stages paths (all changes when none are given) and commits them.
// It returns the short hash, or "" when there was nothing to commit.
func (r *Repo) Commit(message string, paths ...string) (string, error) {
	if !Available() {
		return "", ErrNoGit
	}

	add := []string{"add", "-A"}
	if len(paths) > 0 {
		add = append(add, "--")
		add = append(add, paths...)
	}
	if _, err := run(r.Dir, nil, add...); err != nil {
		return "", fmt.Errorf("git add: %w", err)
	}

	// Nothing staged: diff --cached --quiet exits 0.
	if _, err := run(r.Dir, nil, "diff", "--cached", "--quiet"); err == nil {
		return "", nil
	}

	author := fmt.Sprintf("%s <%s>", r.AuthorName, r.AuthorEmail)
	env := []string{
		"GIT_COMMITTER_NAME=" + r.AuthorName,
		"GIT_COMMITTER_EMAIL=" + r.AuthorEmail,
	}
	if _, err := run(r.Dir, env, "commit", "--quiet", "-m", message, "--author", author); err != nil {
		return "", fmt.Errorf("git commit: %w", err)
	}

	out, err := run(r.Dir, nil, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return out, nil
}

func run(dir string, env []string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s: %w", strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}
