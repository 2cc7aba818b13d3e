package main

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/cleared-dev/ledgerbook/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
