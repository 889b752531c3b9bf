// Package valexpr evaluates the parenthesized value expressions that may
// stand in place of a posting amount, e.g. "(10 EUR * 3)" or "(a + $5)".
package valexpr

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/juev/ledger-textual/internal/amount"
)

type Kind int

const (
	KindBoolean Kind = iota
	KindInteger
	KindAmount
	KindBalance
	// KindBalancePair is a balance that also carries its cost side.
	KindBalancePair
)

func (k Kind) String() string {
	names := []string{"boolean", "integer", "amount", "balance", "balance pair"}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// Value is the tagged result of an evaluation. Only the field matching Kind
// is meaningful.
type Value struct {
	Kind    Kind
	Bool    bool
	Int     int64
	Amount  amount.Amount
	Balance Balance
}

func BoolValue(b bool) Value {
	return Value{Kind: KindBoolean, Bool: b}
}

func IntValue(n int64) Value {
	return Value{Kind: KindInteger, Int: n}
}

func AmountValue(a amount.Amount) Value {
	return Value{Kind: KindAmount, Amount: a}
}

func BalanceValue(b Balance) Value {
	return Value{Kind: KindBalance, Balance: b}
}

// ToAmount coerces scalar values: true is 1, false is 0, integers keep their
// value. Balances do not coerce.
func (v Value) ToAmount() (amount.Amount, bool) {
	switch v.Kind {
	case KindBoolean:
		if v.Bool {
			return amount.FromInt(1), true
		}
		return amount.FromInt(0), true
	case KindInteger:
		return amount.FromInt(v.Int), true
	case KindAmount:
		return v.Amount, true
	default:
		return amount.Amount{}, false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindInteger:
		return decimal.NewFromInt(v.Int).String()
	case KindAmount:
		return v.Amount.String()
	default:
		return v.Balance.String()
	}
}

// Balance holds one amount per commodity in order of first appearance.
type Balance []amount.Amount

func (b Balance) Add(a amount.Amount) Balance {
	out := make(Balance, len(b), len(b)+1)
	copy(out, b)
	for i := range out {
		if out[i].Commodity == a.Commodity {
			out[i].Quantity = out[i].Quantity.Add(a.Quantity)
			return out
		}
	}
	return append(out, a)
}

func (b Balance) Scale(f decimal.Decimal) Balance {
	out := make(Balance, len(b))
	for i, a := range b {
		out[i] = amount.Amount{Quantity: a.Quantity.Mul(f), Commodity: a.Commodity}
	}
	return out
}

func (b Balance) IsZero() bool {
	for _, a := range b {
		if !a.IsZero() {
			return false
		}
	}
	return true
}

func (b Balance) String() string {
	parts := make([]string, len(b))
	for i, a := range b {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}
