package cli

import (
	"fmt"

	"github.com/alecthomas/kong"
)

const priceTimeFormat = "2006/01/02 15:04:05"

type PricesCmd struct {
	File      string   `help:"Journal to read (defaults to LEDGER_FILE)." arg:"" optional:"" type:"path"`
	Commodity []string `help:"Only list prices of these commodities." short:"c"`
}

func (cmd *PricesCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.load(cmd.File, ctx.Stderr)
	if err != nil {
		return err
	}
	if len(s.errors) > 0 {
		s.report(ctx.Stderr)
		return ErrFailed
	}

	wanted := make(map[string]bool, len(cmd.Commodity))
	for _, sym := range cmd.Commodity {
		wanted[sym] = true
	}

	for _, c := range s.journal.Commodities.All() {
		if len(wanted) > 0 && !wanted[c.Symbol] {
			continue
		}
		for _, p := range c.Prices() {
			_, _ = fmt.Fprintf(ctx.Stdout, "P %s %s %s\n", p.When.Format(priceTimeFormat), c.Symbol, p.Price.String())
		}
	}
	return nil
}
