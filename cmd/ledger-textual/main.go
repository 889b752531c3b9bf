package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/juev/ledger-textual/internal/cli"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var app struct {
	Version kong.VersionFlag `help:"Show version information." short:"v"`
	cli.Commands
}

func main() {
	ctx := kong.Parse(&app,
		kong.Name("ledger-textual"),
		kong.Description("Parse, check and rewrite ledger journals."),
		kong.Vars{"version": fmt.Sprintf("ledger-textual %s (commit: %s, built: %s)", Version, Commit, Date)},
		kong.UsageOnError(),
		kong.Bind(&app.Globals),
	)

	err := ctx.Run()
	if errors.Is(err, cli.ErrFailed) {
		os.Exit(1)
	}
	ctx.FatalIfErrorf(err)
}
