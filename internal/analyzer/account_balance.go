package analyzer

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/juev/ledger-textual/internal/journal"
)

// AccountBalances maps account name -> commodity -> balance
type AccountBalances map[string]map[string]decimal.Decimal

// CalculateAccountBalances sums the postings of every ordinary entry per
// account and commodity. Amounts inferred while balancing are included;
// generated automated postings are too, as they are part of the entry.
func CalculateAccountBalances(j *journal.Journal) AccountBalances {
	balances := make(AccountBalances)

	for _, e := range j.Entries {
		for _, p := range e.Postings {
			if p.Amount == nil || p.Account == nil {
				continue
			}

			accountName := p.Account.FullName()
			if balances[accountName] == nil {
				balances[accountName] = make(map[string]decimal.Decimal)
			}

			sym := p.Amount.Symbol()
			balances[accountName][sym] = balances[accountName][sym].Add(p.Amount.Quantity)
		}
	}

	return balances
}

// Accounts returns the account names in sorted order.
func (b AccountBalances) Accounts() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Commodities returns the symbols held by account in sorted order, skipping
// those that net to zero.
func (b AccountBalances) Commodities(account string) []string {
	var symbols []string
	for sym, qty := range b[account] {
		if !qty.IsZero() {
			symbols = append(symbols, sym)
		}
	}
	sort.Strings(symbols)
	return symbols
}

// Total sums every account per commodity.
func (b AccountBalances) Total() map[string]decimal.Decimal {
	total := make(map[string]decimal.Decimal)
	for _, commodities := range b {
		for sym, qty := range commodities {
			total[sym] = total[sym].Add(qty)
		}
	}
	return total
}
