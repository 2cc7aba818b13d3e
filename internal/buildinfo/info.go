// Package buildinfo holds release details stamped in at link time, e.g.
//
//	go build -ldflags "-X github.com/cleared-dev/ledgerbook/internal/buildinfo.Version=v0.3.0" ./cmd/ledgerbook
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the details for --version.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
