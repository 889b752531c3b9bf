package cli

import (
	"github.com/alecthomas/kong"

	"github.com/juev/ledger-textual/internal/formatter"
	"github.com/juev/ledger-textual/internal/textual"
)

type PrintCmd struct {
	File   string `help:"Journal to read (defaults to LEDGER_FILE)." arg:"" optional:"" type:"path"`
	Source string `help:"Rewrite this included file instead of the journal itself." type:"path"`

	AccountWidth int `help:"Column at which amounts start (overrides configuration)."`
	AmountWidth  int `help:"Right-align amounts within this many columns (overrides configuration)."`
}

func (cmd *PrintCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.load(cmd.File, ctx.Stderr)
	if err != nil {
		return err
	}
	if len(s.errors) > 0 {
		s.report(ctx.Stderr)
		return ErrFailed
	}

	opts := s.config.Format
	if cmd.AccountWidth > 0 {
		opts.AccountWidth = cmd.AccountWidth
	}
	if cmd.AmountWidth > 0 {
		opts.AmountWidth = cmd.AmountWidth
	}

	source := cmd.Source
	if source == "" {
		source = s.file
	}
	return textual.WriteTextual(s.journal, source, formatter.New(opts), ctx.Stdout)
}
