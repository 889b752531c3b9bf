package amount

import (
	"sort"
	"strings"
	"time"
)

const maxReduceSteps = 16

type Price struct {
	When  time.Time
	Price Amount
}

// Commodity carries the display style learned from parsed amounts together
// with price history and conversion data.
type Commodity struct {
	Symbol    string
	Precision int32
	Prefix    bool
	Separated bool
	NoMarket  bool

	prices  []Price
	smaller *Amount
	styled  bool
}

func (c *Commodity) AddPrice(when time.Time, price Amount) {
	i := sort.Search(len(c.prices), func(i int) bool {
		return c.prices[i].When.After(when)
	})
	c.prices = append(c.prices, Price{})
	copy(c.prices[i+1:], c.prices[i:])
	c.prices[i] = Price{When: when, Price: price}
}

// Prices returns the price history ordered by time.
func (c *Commodity) Prices() []Price {
	return c.prices
}

// Smaller returns the amount one unit of c converts to, if a conversion was declared.
func (c *Commodity) Smaller() (Amount, bool) {
	if c.smaller == nil {
		return Amount{}, false
	}
	return *c.smaller, true
}

func (c *Commodity) quotedSymbol() string {
	if strings.ContainsAny(c.Symbol, invalidSymbolChars) {
		return `"` + c.Symbol + `"`
	}
	return c.Symbol
}

// Decorate places the symbol around an already formatted number the way
// amounts of c were written.
func (c *Commodity) Decorate(num string) string {
	sym := c.quotedSymbol()
	switch {
	case c.Prefix && c.Separated:
		return sym + " " + num
	case c.Prefix:
		return sym + num
	case c.Separated:
		return num + " " + sym
	default:
		return num + sym
	}
}

func (c *Commodity) learn(precision int32, prefix, separated bool) {
	if precision > c.Precision {
		c.Precision = precision
	}
	if !c.styled {
		c.Prefix = prefix
		c.Separated = separated
		c.styled = true
	}
}

type Registry struct {
	commodities map[string]*Commodity
	order       []*Commodity

	// Default is the commodity named by the last D directive.
	Default *Commodity
}

func NewRegistry() *Registry {
	return &Registry{
		commodities: make(map[string]*Commodity),
	}
}

func (r *Registry) Find(symbol string) (*Commodity, bool) {
	c, ok := r.commodities[symbol]
	return c, ok
}

func (r *Registry) FindOrCreate(symbol string) *Commodity {
	if c, ok := r.commodities[symbol]; ok {
		return c
	}
	c := &Commodity{Symbol: symbol}
	r.commodities[symbol] = c
	r.order = append(r.order, c)
	return c
}

// All returns commodities in creation order.
func (r *Registry) All() []*Commodity {
	return r.order
}

// SetDefault parses a commodity symbol (optionally with a sample amount such
// as "$1,000.00") and makes it the default commodity.
func (r *Registry) SetDefault(text string) (*Commodity, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &Error{Text: text, Msg: "missing commodity"}
	}
	if a, err := r.Parse(text, 0); err == nil && a.Commodity != nil {
		r.Default = a.Commodity
		return a.Commodity, nil
	}
	c := r.FindOrCreate(text)
	r.Default = c
	return c, nil
}

// AddConversion records that lhs equals rhs, e.g. "1.00 Kb" = "1024 bytes".
// Reduce then rewrites amounts of the lhs commodity into the rhs commodity.
func (r *Registry) AddConversion(lhs, rhs string) error {
	big, err := r.Parse(lhs, NoReduce)
	if err != nil {
		return err
	}
	small, err := r.Parse(rhs, NoReduce)
	if err != nil {
		return err
	}
	if big.Commodity == nil || small.Commodity == nil {
		return &Error{Text: lhs + " = " + rhs, Msg: "conversion requires commodities on both sides"}
	}
	if big.Quantity.IsZero() {
		return &Error{Text: lhs, Msg: "conversion from a zero amount"}
	}
	if big.Commodity == small.Commodity {
		return &Error{Text: lhs + " = " + rhs, Msg: "conversion to the same commodity"}
	}
	unit := Amount{
		Quantity:  small.Quantity.Div(big.Quantity),
		Commodity: small.Commodity,
	}
	big.Commodity.smaller = &unit
	return nil
}
