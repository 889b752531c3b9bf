package cli

import (
	"fmt"

	"github.com/alecthomas/kong"
)

type CheckCmd struct {
	File string `help:"Journal to check (defaults to LEDGER_FILE)." arg:"" optional:"" type:"path"`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.load(cmd.File, ctx.Stderr)
	if err != nil {
		return err
	}
	if len(s.errors) > 0 {
		s.report(ctx.Stderr)
		return ErrFailed
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("%d entries in %d file(s)", s.count, len(s.journal.Sources)))
	return nil
}
