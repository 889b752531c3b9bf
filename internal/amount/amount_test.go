package amount

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		quantity  string
		symbol    string
		prefix    bool
		separated bool
	}{
		{name: "bare number", input: "100.00", quantity: "100"},
		{name: "prefix symbol", input: "$50.25", quantity: "50.25", symbol: "$", prefix: true},
		{name: "prefix negative inside", input: "$-50", quantity: "-50", symbol: "$", prefix: true},
		{name: "leading minus", input: "-$50", quantity: "-50", symbol: "$", prefix: true},
		{name: "suffix symbol", input: "10 AAA", quantity: "10", symbol: "AAA", separated: true},
		{name: "suffix glued", input: "10AAA", quantity: "10", symbol: "AAA"},
		{name: "prefix separated", input: "EUR 12", quantity: "12", symbol: "EUR", prefix: true, separated: true},
		{name: "thousands", input: "$1,000.50", quantity: "1000.5", symbol: "$", prefix: true},
		{name: "quoted symbol", input: `3 "M&M 2"`, quantity: "3", symbol: "M&M 2", separated: true},
		{name: "seconds", input: "5400s", quantity: "5400", symbol: "s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			a, err := r.Parse(tt.input, 0)
			require.NoError(t, err)
			assert.True(t, a.Quantity.Equal(decimal.RequireFromString(tt.quantity)), "got %s", a.Quantity)
			assert.Equal(t, tt.symbol, a.Symbol())
			if tt.symbol != "" {
				assert.Equal(t, tt.prefix, a.Commodity.Prefix)
				assert.Equal(t, tt.separated, a.Commodity.Separated)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	r := NewRegistry()
	for _, input := range []string{"", "   ", "$", "10 AAA junk", `5 "open`, "abc"} {
		_, err := r.Parse(input, 0)
		var amtErr *Error
		assert.ErrorAs(t, err, &amtErr, "input %q", input)
	}
}

func TestParse_PrecisionLearning(t *testing.T) {
	r := NewRegistry()
	_, err := r.Parse("$1.5", 0)
	require.NoError(t, err)
	_, err = r.Parse("$1.255", NoMigrate)
	require.NoError(t, err)

	c, ok := r.Find("$")
	require.True(t, ok)
	assert.Equal(t, int32(1), c.Precision)

	_, err = r.Parse("$2.00", 0)
	require.NoError(t, err)
	assert.Equal(t, int32(2), c.Precision)
}

func TestAmount_String(t *testing.T) {
	r := NewRegistry()
	a, err := r.Parse("$-1,234.50", 0)
	require.NoError(t, err)
	assert.Equal(t, "$-1234.50", a.String())

	b, err := r.Parse("10 AAA", 0)
	require.NoError(t, err)
	assert.Equal(t, "10 AAA", b.String())

	c, err := r.Parse(`2 "M&M"`, 0)
	require.NoError(t, err)
	assert.Equal(t, `2 "M&M"`, c.String())
}

func TestAmount_MulRound(t *testing.T) {
	r := NewRegistry()
	qty, err := r.Parse("10 AAA", 0)
	require.NoError(t, err)
	price, err := r.Parse("2.555 BBB", NoMigrate)
	require.NoError(t, err)

	cost := price.Mul(qty).RoundToCommodity()
	assert.Equal(t, "BBB", cost.Symbol())
	assert.True(t, cost.Quantity.Equal(decimal.NewFromInt(26)), "got %s", cost.Quantity)
}

func TestAmount_Add(t *testing.T) {
	r := NewRegistry()
	a, _ := r.Parse("$5", 0)
	b, _ := r.Parse("$7", 0)
	eur, _ := r.Parse("3 EUR", 0)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Quantity.Equal(decimal.NewFromInt(12)))

	_, err = a.Add(eur)
	assert.Error(t, err)

	zero := Amount{}
	sum, err = zero.Add(eur)
	require.NoError(t, err)
	assert.Equal(t, "EUR", sum.Symbol())
}

func TestConversionReduce(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.AddConversion("1.00 Kb", "1024 b"))

	a, err := r.Parse("2 Kb", 0)
	require.NoError(t, err)
	assert.Equal(t, "b", a.Symbol())
	assert.True(t, a.Quantity.Equal(decimal.NewFromInt(2048)))

	raw, err := r.Parse("2 Kb", NoReduce)
	require.NoError(t, err)
	assert.Equal(t, "Kb", raw.Symbol())

	assert.Error(t, r.AddConversion("0 Kb", "1 b"))
	assert.Error(t, r.AddConversion("1", "1 b"))
}

func TestCommodity_Prices(t *testing.T) {
	r := NewRegistry()
	c := r.FindOrCreate("AAPL")
	p1, _ := r.Parse("$150", 0)
	p2, _ := r.Parse("$140", 0)
	later := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	c.AddPrice(later, p1)
	c.AddPrice(earlier, p2)

	prices := c.Prices()
	require.Len(t, prices, 2)
	assert.Equal(t, earlier, prices[0].When)
	assert.Equal(t, later, prices[1].When)
}

func TestRegistry_SetDefault(t *testing.T) {
	r := NewRegistry()
	c, err := r.SetDefault("$1,000.00")
	require.NoError(t, err)
	assert.Equal(t, "$", c.Symbol)
	assert.Same(t, c, r.Default)

	c, err = r.SetDefault("EUR")
	require.NoError(t, err)
	assert.Equal(t, "EUR", c.Symbol)

	_, err = r.SetDefault("  ")
	assert.Error(t, err)
}
