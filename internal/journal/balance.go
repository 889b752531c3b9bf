package journal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/juev/ledger-textual/internal/amount"
)

// BalanceError reports the residual left per commodity after summing an
// entry's balancing postings.
type BalanceError struct {
	Differences map[string]decimal.Decimal
	Reason      string
}

func (e *BalanceError) Error() string {
	if e.Reason != "" {
		return "entry does not balance: " + e.Reason
	}
	symbols := make([]string, 0, len(e.Differences))
	for sym := range e.Differences {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	parts := make([]string, len(symbols))
	for i, sym := range symbols {
		parts[i] = strings.TrimSpace(e.Differences[sym].String() + " " + sym)
	}
	return "entry does not balance: off by " + strings.Join(parts, ", ")
}

// Finalize checks that the balancing postings sum to zero per commodity.
// A single posting without an amount receives the negated residual.
func (e *Entry) Finalize() error {
	var (
		inferred *Posting
		sums     = make(map[*amount.Commodity]decimal.Decimal)
		order    []*amount.Commodity
	)

	for _, p := range e.Postings {
		if !p.MustBalance() {
			continue
		}
		if p.Amount == nil {
			if inferred != nil {
				return &BalanceError{Reason: "only one posting with null amount allowed per entry"}
			}
			inferred = p
			continue
		}
		a := weight(p)
		if _, ok := sums[a.Commodity]; !ok {
			order = append(order, a.Commodity)
		}
		sums[a.Commodity] = sums[a.Commodity].Add(a.Quantity)
	}

	if inferred != nil {
		var residual []*amount.Commodity
		for _, c := range order {
			if !sums[c].IsZero() {
				residual = append(residual, c)
			}
		}
		switch len(residual) {
		case 0:
			zero := amount.Amount{}
			if len(order) > 0 {
				zero.Commodity = order[0]
			}
			inferred.Amount = &zero
		case 1:
			c := residual[0]
			a := amount.New(sums[c].Neg(), c)
			inferred.Amount = &a
		default:
			return &BalanceError{Reason: "cannot infer a null amount across several commodities"}
		}
		inferred.Flags |= FlagCalculated
		return nil
	}

	diffs := make(map[string]decimal.Decimal)
	for c, sum := range sums {
		if !sum.IsZero() {
			sym := ""
			if c != nil {
				sym = c.Symbol
			}
			diffs[sym] = sum
		}
	}
	if len(diffs) > 0 {
		return &BalanceError{Differences: diffs}
	}
	return nil
}

// weight is the amount a posting contributes to the balance: its cost when
// priced, otherwise its amount.
func weight(p *Posting) amount.Amount {
	if p.Cost == nil {
		return *p.Amount
	}
	cost := p.Cost.Abs()
	if p.Amount.Quantity.IsNegative() {
		cost = cost.Neg()
	}
	return cost
}

// Balance sums the balancing postings per commodity symbol.
func (e *Entry) Balance() map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, p := range e.Postings {
		if !p.MustBalance() || p.Amount == nil {
			continue
		}
		a := weight(p)
		sums[a.Symbol()] = sums[a.Symbol()].Add(a.Quantity)
	}
	return sums
}

func (e *Entry) String() string {
	var sb strings.Builder
	switch e.Kind {
	case KindAutomated:
		fmt.Fprintf(&sb, "= %s\n", e.Predicate)
	case KindPeriodic:
		fmt.Fprintf(&sb, "~ %s\n", e.PeriodText)
	default:
		sb.WriteString(e.Date.Format("2006/01/02"))
		if e.State == StateCleared {
			sb.WriteString(" *")
		}
		if e.Code != "" {
			fmt.Fprintf(&sb, " (%s)", e.Code)
		}
		fmt.Fprintf(&sb, " %s\n", e.Payee)
	}
	for _, p := range e.Postings {
		name := p.Account.FullName()
		switch {
		case p.Has(FlagBalance):
			name = "[" + name + "]"
		case p.Has(FlagVirtual):
			name = "(" + name + ")"
		}
		sb.WriteString("    " + name)
		if p.Amount != nil {
			sb.WriteString("  " + p.Amount.String())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
