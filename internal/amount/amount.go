package amount

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type ParseFlags uint8

const (
	// NoMigrate leaves the commodity's precision and display style untouched.
	NoMigrate ParseFlags = 1 << iota
	// NoReduce skips conversion into the smallest declared unit.
	NoReduce
)

const invalidSymbolChars = " \t\r\n0123456789.,;:?!-+*/^&|=<>{}[]()@\""

// Error is returned for amounts that cannot be parsed or combined.
type Error struct {
	Text string
	Msg  string
}

func (e *Error) Error() string {
	if e.Text == "" {
		return "amount: " + e.Msg
	}
	return fmt.Sprintf("amount: %s: %q", e.Msg, e.Text)
}

type Amount struct {
	Quantity  decimal.Decimal
	Commodity *Commodity
}

func New(q decimal.Decimal, c *Commodity) Amount {
	return Amount{Quantity: q, Commodity: c}
}

func FromInt(n int64) Amount {
	return Amount{Quantity: decimal.NewFromInt(n)}
}

func (a Amount) Symbol() string {
	if a.Commodity == nil {
		return ""
	}
	return a.Commodity.Symbol
}

func (a Amount) IsZero() bool {
	return a.Quantity.IsZero()
}

func (a Amount) Neg() Amount {
	return Amount{Quantity: a.Quantity.Neg(), Commodity: a.Commodity}
}

func (a Amount) Abs() Amount {
	return Amount{Quantity: a.Quantity.Abs(), Commodity: a.Commodity}
}

// Mul multiplies quantities and keeps the receiver's commodity.
func (a Amount) Mul(b Amount) Amount {
	return Amount{Quantity: a.Quantity.Mul(b.Quantity), Commodity: a.Commodity}
}

func (a Amount) Add(b Amount) (Amount, error) {
	var c *Commodity
	switch {
	case a.Commodity == b.Commodity, b.IsZero():
		c = a.Commodity
	case a.IsZero():
		c = b.Commodity
	default:
		return Amount{}, &Error{Msg: fmt.Sprintf("cannot add %s and %s", a, b)}
	}
	return Amount{Quantity: a.Quantity.Add(b.Quantity), Commodity: c}, nil
}

func (a Amount) Round(places int32) Amount {
	return Amount{Quantity: a.Quantity.Round(places), Commodity: a.Commodity}
}

// RoundToCommodity rounds to the precision learned for the amount's commodity.
func (a Amount) RoundToCommodity() Amount {
	if a.Commodity == nil {
		return a
	}
	return a.Round(a.Commodity.Precision)
}

// Reduce converts the amount into the smallest unit reachable through
// declared conversions.
func (a Amount) Reduce() Amount {
	for step := 0; step < maxReduceSteps; step++ {
		if a.Commodity == nil || a.Commodity.smaller == nil {
			break
		}
		unit := *a.Commodity.smaller
		a = Amount{Quantity: a.Quantity.Mul(unit.Quantity), Commodity: unit.Commodity}
	}
	return a
}

func (a Amount) String() string {
	if a.Commodity == nil || a.Commodity.Symbol == "" {
		return a.Quantity.String()
	}
	return a.Commodity.Decorate(a.Quantity.StringFixed(a.Commodity.Precision))
}

// Parse reads an amount such as "$-10.00", "-10 EUR" or `5 "M&M"`.
func (r *Registry) Parse(text string, flags ParseFlags) (Amount, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Amount{}, &Error{Text: text, Msg: "empty amount"}
	}

	negative := false
	if s[0] == '-' {
		negative = true
		s = strings.TrimLeft(s[1:], " \t")
	}

	var (
		symbol, number     string
		prefix, separated  bool
		err                error
		afterSymbol, after string
	)

	if isNumberStart(s[0]) {
		number, after = scanNumber(s)
		rest := strings.TrimLeft(after, " \t")
		separated = len(rest) != len(after)
		if rest != "" {
			symbol, rest, err = scanSymbol(rest)
			if err != nil {
				return Amount{}, &Error{Text: text, Msg: err.Error()}
			}
		}
		after = rest
	} else {
		prefix = true
		symbol, afterSymbol, err = scanSymbol(s)
		if err != nil {
			return Amount{}, &Error{Text: text, Msg: err.Error()}
		}
		rest := strings.TrimLeft(afterSymbol, " \t")
		separated = len(rest) != len(afterSymbol)
		if rest != "" && rest[0] == '-' {
			negative = !negative
			rest = rest[1:]
		}
		if rest == "" || !isNumberStart(rest[0]) {
			return Amount{}, &Error{Text: text, Msg: "missing quantity"}
		}
		number, after = scanNumber(rest)
	}

	if strings.TrimSpace(after) != "" {
		return Amount{}, &Error{Text: text, Msg: "unexpected trailing text"}
	}

	q, places, err := parseQuantity(number)
	if err != nil {
		return Amount{}, &Error{Text: text, Msg: "invalid quantity"}
	}
	if negative {
		q = q.Neg()
	}

	a := Amount{Quantity: q}
	if symbol != "" {
		c := r.FindOrCreate(symbol)
		if flags&NoMigrate == 0 {
			c.learn(places, prefix, separated)
		}
		a.Commodity = c
	}
	if flags&NoReduce == 0 {
		a = a.Reduce()
	}
	return a, nil
}

func isNumberStart(ch byte) bool {
	return (ch >= '0' && ch <= '9') || ch == '.'
}

func scanNumber(s string) (number, rest string) {
	i := 0
	for i < len(s) && (isNumberStart(s[i]) || s[i] == ',') {
		i++
	}
	return s[:i], s[i:]
}

func scanSymbol(s string) (symbol, rest string, err error) {
	if s[0] == '"' {
		end := strings.IndexByte(s[1:], '"')
		if end < 0 {
			return "", "", fmt.Errorf("quoted commodity lacks closing quote")
		}
		return s[1 : end+1], s[end+2:], nil
	}
	i := 0
	for i < len(s) && !strings.ContainsRune(invalidSymbolChars, rune(s[i])) {
		i++
	}
	if i == 0 {
		return "", "", fmt.Errorf("invalid commodity symbol")
	}
	return s[:i], s[i:], nil
}

func parseQuantity(number string) (decimal.Decimal, int32, error) {
	clean := strings.ReplaceAll(number, ",", "")
	q, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, 0, err
	}
	places := int32(0)
	if dot := strings.IndexByte(clean, '.'); dot >= 0 {
		places = int32(len(clean) - dot - 1)
	}
	return q, places, nil
}
