// Package formatter renders journal entries in the textual format with
// postings aligned on display width.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/juev/ledger-textual/internal/amount"
	"github.com/juev/ledger-textual/internal/journal"
)

const (
	defaultIndent     = "    "
	minSpaces         = 2
	DefaultDateFormat = "2006/01/02"
)

type Options struct {
	// AccountWidth is the minimum column at which amounts start.
	AccountWidth int `yaml:"account_width"`
	// AmountWidth right-aligns amounts within this many columns.
	AmountWidth int    `yaml:"amount_width"`
	DateFormat  string `yaml:"date_format"`
	// Commodities maps a symbol to a sample number, e.g. "EUR": "1.000,00".
	Commodities map[string]string `yaml:"commodities"`
}

func DefaultOptions() Options {
	return Options{DateFormat: DefaultDateFormat}
}

// Formatter buffers the postings of one entry so that Flush can align them.
type Formatter struct {
	opts    Options
	formats map[string]NumberFormat
	pending []*journal.Posting
}

func New(opts Options) *Formatter {
	if opts.DateFormat == "" {
		opts.DateFormat = DefaultDateFormat
	}
	f := &Formatter{opts: opts, formats: make(map[string]NumberFormat)}
	for symbol, sample := range opts.Commodities {
		f.formats[symbol] = ParseNumberFormat(sample)
	}
	return f
}

func (f *Formatter) FormatHeader(e *journal.Entry) string {
	var sb strings.Builder
	sb.WriteString(e.Date.Format(f.opts.DateFormat))
	switch e.State {
	case journal.StateCleared:
		sb.WriteString(" *")
	case journal.StatePending:
		sb.WriteString(" !")
	}
	if e.Code != "" {
		sb.WriteString(" (" + e.Code + ")")
	}
	sb.WriteString(" " + e.Payee + "\n")
	return sb.String()
}

func (f *Formatter) FormatPosting(p *journal.Posting) string {
	f.pending = append(f.pending, p)
	return ""
}

// Flush renders the buffered postings and resets the buffer.
func (f *Formatter) Flush() string {
	postings := f.pending
	f.pending = nil

	col := f.opts.AccountWidth
	for _, p := range postings {
		col = max(col, runewidth.StringWidth(defaultIndent+accountName(p))+minSpaces)
	}

	var sb strings.Builder
	for _, p := range postings {
		sb.WriteString(f.postingLine(p, col))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatEntry renders a whole entry, leaving out generated postings.
func (f *Formatter) FormatEntry(e *journal.Entry) string {
	var sb strings.Builder
	switch e.Kind {
	case journal.KindAutomated:
		sb.WriteString("= " + e.Predicate + "\n")
	case journal.KindPeriodic:
		sb.WriteString("~ " + e.PeriodText + "\n")
	default:
		sb.WriteString(f.FormatHeader(e))
	}
	for _, p := range e.Postings {
		if !p.Has(journal.FlagAuto) {
			sb.WriteString(f.FormatPosting(p))
		}
	}
	sb.WriteString(f.Flush())
	return sb.String()
}

func accountName(p *journal.Posting) string {
	name := p.Account.FullName()
	switch {
	case p.Has(journal.FlagBalance):
		return "[" + name + "]"
	case p.Has(journal.FlagVirtual):
		return "(" + name + ")"
	}
	return name
}

func (f *Formatter) postingLine(p *journal.Posting, col int) string {
	var sb strings.Builder
	sb.WriteString(defaultIndent)
	sb.WriteString(accountName(p))

	if p.Amount != nil && !p.Has(journal.FlagCalculated) {
		text := f.FormatAmount(*p.Amount)
		spaces := max(col-runewidth.StringWidth(sb.String()), minSpaces)
		if f.opts.AmountWidth > 0 {
			spaces += max(f.opts.AmountWidth-runewidth.StringWidth(text), 0)
		}
		sb.WriteString(strings.Repeat(" ", spaces))
		sb.WriteString(text)

		if p.Cost != nil {
			sb.WriteString(" @@ ")
			sb.WriteString(f.FormatAmount(*p.Cost))
		}
	}

	if p.Note != "" {
		sb.WriteString("  ; ")
		sb.WriteString(p.Note)
	}
	return sb.String()
}

// FormatAmount prints a using the configured number format of its
// commodity, falling back to the style learned while parsing.
func (f *Formatter) FormatAmount(a amount.Amount) string {
	if a.Commodity == nil {
		return a.String()
	}
	nf, ok := f.formats[a.Commodity.Symbol]
	if !ok {
		return a.String()
	}
	return a.Commodity.Decorate(nf.Format(a.Quantity))
}
