package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"

	"github.com/juev/ledger-textual/internal/amount"
	"github.com/juev/ledger-textual/internal/analyzer"
	"github.com/juev/ledger-textual/internal/formatter"
	"github.com/juev/ledger-textual/internal/journal"
)

type BalanceCmd struct {
	File  string `help:"Journal to read (defaults to LEDGER_FILE)." arg:"" optional:"" type:"path"`
	Empty bool   `help:"Show accounts whose balance is zero." short:"E"`
}

func (cmd *BalanceCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.load(cmd.File, ctx.Stderr)
	if err != nil {
		return err
	}
	if len(s.errors) > 0 {
		s.report(ctx.Stderr)
		return ErrFailed
	}

	f := formatter.New(s.config.Format)
	balances := analyzer.CalculateAccountBalances(s.journal)

	type row struct {
		amount, account string
	}
	var rows []row
	width := 0
	add := func(text, account string) {
		rows = append(rows, row{text, account})
		width = max(width, runewidth.StringWidth(text))
	}

	for _, name := range balances.Accounts() {
		symbols := balances.Commodities(name)
		if len(symbols) == 0 {
			if cmd.Empty {
				add("0", name)
			}
			continue
		}
		for _, sym := range symbols {
			add(renderBalance(f, s.journal, sym, balances[name][sym]), name)
		}
	}
	if len(rows) == 0 {
		printSuccess(ctx.Stdout, "no balances")
		return nil
	}

	var totals []string
	total := balances.Total()
	symbols := make([]string, 0, len(total))
	for sym := range total {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	for _, sym := range symbols {
		if !total[sym].IsZero() {
			totals = append(totals, renderBalance(f, s.journal, sym, total[sym]))
		}
	}
	if len(totals) == 0 {
		totals = []string{"0"}
	}
	for _, t := range totals {
		width = max(width, runewidth.StringWidth(t))
	}

	for _, r := range rows {
		writeBalanceRow(ctx.Stdout, width, r.amount, r.account)
	}
	_, _ = fmt.Fprintln(ctx.Stdout, strings.Repeat("-", width))
	for _, t := range totals {
		writeBalanceRow(ctx.Stdout, width, t, "")
	}
	return nil
}

func renderBalance(f *formatter.Formatter, j *journal.Journal, sym string, qty decimal.Decimal) string {
	var c *amount.Commodity
	if sym != "" {
		c, _ = j.Commodities.Find(sym)
	}
	return f.FormatAmount(amount.New(qty, c))
}

func writeBalanceRow(w io.Writer, width int, text, account string) {
	pad := strings.Repeat(" ", width-runewidth.StringWidth(text))
	line := pad + text
	if account != "" {
		line += "  " + account
	}
	_, _ = fmt.Fprintln(w, line)
}
