package journal

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juev/ledger-textual/internal/amount"
)

func mustAmount(t *testing.T, j *Journal, text string) *amount.Amount {
	t.Helper()
	a, err := j.Commodities.Parse(text, 0)
	require.NoError(t, err)
	return &a
}

func posting(t *testing.T, j *Journal, acct, amt string, flags PostingFlags) *Posting {
	t.Helper()
	p := &Posting{Account: j.Master.FindOrCreate(acct), Flags: flags}
	if amt != "" {
		p.Amount = mustAmount(t, j, amt)
	}
	return p
}

func TestFinalize_Balanced(t *testing.T) {
	j := New()
	e := NewEntry()
	e.AddPosting(posting(t, j, "Expenses:Food", "$50.00", 0))
	e.AddPosting(posting(t, j, "Assets:Cash", "$-50.00", 0))

	require.NoError(t, e.Finalize())
	assert.Same(t, e, e.Postings[0].Entry)
}

func TestFinalize_InferredAmount(t *testing.T) {
	j := New()
	e := NewEntry()
	e.AddPosting(posting(t, j, "Expenses:Food", "$50.00", 0))
	e.AddPosting(posting(t, j, "Assets:Cash", "", 0))

	require.NoError(t, e.Finalize())
	inferred := e.Postings[1]
	require.NotNil(t, inferred.Amount)
	assert.True(t, inferred.Has(FlagCalculated))
	assert.Equal(t, "$-50.00", inferred.Amount.String())
}

func TestFinalize_Unbalanced(t *testing.T) {
	j := New()
	e := NewEntry()
	e.AddPosting(posting(t, j, "Expenses:Food", "$50", 0))
	e.AddPosting(posting(t, j, "Assets:Cash", "$-40", 0))

	err := e.Finalize()
	var balErr *BalanceError
	require.ErrorAs(t, err, &balErr)
	assert.True(t, balErr.Differences["$"].Equal(decimal.NewFromInt(10)))
	assert.Contains(t, err.Error(), "off by 10 $")
}

func TestFinalize_MultiCommodityUnbalanced(t *testing.T) {
	j := New()
	e := NewEntry()
	e.AddPosting(posting(t, j, "Expenses:Food", "$50", 0))
	e.AddPosting(posting(t, j, "Expenses:Rent", "100 EUR", 0))
	e.AddPosting(posting(t, j, "Assets:Cash", "$-50", 0))

	assert.Error(t, e.Finalize())
}

func TestFinalize_TwoNullAmounts(t *testing.T) {
	j := New()
	e := NewEntry()
	e.AddPosting(posting(t, j, "Expenses:Food", "$50", 0))
	e.AddPosting(posting(t, j, "Assets:Cash", "", 0))
	e.AddPosting(posting(t, j, "Assets:Bank", "", 0))

	assert.ErrorContains(t, e.Finalize(), "only one posting with null amount")
}

func TestFinalize_VirtualPostings(t *testing.T) {
	j := New()
	e := NewEntry()
	e.AddPosting(posting(t, j, "Expenses:Food", "$50", 0))
	e.AddPosting(posting(t, j, "Assets:Cash", "$-50", 0))
	e.AddPosting(posting(t, j, "Budget:Food", "$-50", FlagVirtual))
	require.NoError(t, e.Finalize())

	e.AddPosting(posting(t, j, "Savings", "$10", FlagVirtual|FlagBalance))
	assert.Error(t, e.Finalize())
}

func TestFinalize_Cost(t *testing.T) {
	j := New()
	e := NewEntry()
	buy := posting(t, j, "Assets:Broker", "10 AAA", 0)
	buy.Cost = mustAmount(t, j, "20 BBB")
	e.AddPosting(buy)
	e.AddPosting(posting(t, j, "Assets:Cash", "-20 BBB", 0))

	require.NoError(t, e.Finalize())
}

func TestJournal_AddEntry(t *testing.T) {
	j := New()
	good := NewEntry()
	good.AddPosting(posting(t, j, "A", "$1", 0))
	good.AddPosting(posting(t, j, "B", "$-1", 0))
	require.NoError(t, j.AddEntry(good))

	bad := NewEntry()
	bad.AddPosting(posting(t, j, "A", "$1", 0))
	bad.AddPosting(posting(t, j, "B", "$-2", 0))
	assert.Error(t, j.AddEntry(bad))

	require.Len(t, j.Entries, 1)
	assert.Same(t, good, j.Entries[0])
}

func TestJournal_AutoEntryFinalizer(t *testing.T) {
	j := New()
	auto, err := NewAutoEntry("/Food/")
	require.NoError(t, err)
	auto.AddPosting(posting(t, j, "Budget:Food", "-1", FlagVirtual))
	auto.AddPosting(posting(t, j, "Charity", "$1", FlagVirtual))
	require.NoError(t, auto.Finalize())
	j.AddAutoEntry(auto)

	f := NewAutoEntryFinalizer(j)
	j.AddFinalizer(f)

	e := NewEntry()
	e.AddPosting(posting(t, j, "Expenses:Food", "$25.00", 0))
	e.AddPosting(posting(t, j, "Assets:Cash", "", 0))
	require.NoError(t, j.AddEntry(e))

	require.Len(t, e.Postings, 4)
	generated := e.Postings[2]
	assert.True(t, generated.Has(FlagAuto))
	assert.Equal(t, "Budget:Food", generated.Account.FullName())
	assert.Equal(t, "$-25.00", generated.Amount.String())
	assert.Equal(t, "$1.00", e.Postings[3].Amount.String())

	j.RemoveFinalizer(f)
	plain := NewEntry()
	plain.AddPosting(posting(t, j, "Expenses:Food", "$5", 0))
	plain.AddPosting(posting(t, j, "Assets:Cash", "", 0))
	require.NoError(t, j.AddEntry(plain))
	assert.Len(t, plain.Postings, 2)
}

func TestNewAutoEntry_InvalidPredicate(t *testing.T) {
	_, err := NewAutoEntry("/(/")
	assert.Error(t, err)
	_, err = NewAutoEntry("  ")
	assert.Error(t, err)
}

func TestJournal_EntriesIn(t *testing.T) {
	j := New()
	main := j.AddSource("main.journal")
	inc := j.AddSource("inc.journal")

	a := NewEntry()
	a.Source.FileIndex = main
	b := NewEntry()
	b.Source.FileIndex = inc
	j.Entries = append(j.Entries, a, b)

	assert.Equal(t, []*Entry{b}, j.EntriesIn(KindOrdinary, inc))
	assert.Empty(t, j.EntriesIn(KindPeriodic, main))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024/01/15", 0)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", d.Format("2006-01-02"))

	d, err = ParseDate("2024-02-29", 0)
	require.NoError(t, err)
	assert.Equal(t, time.February, d.Month())

	d, err = ParseDate("03/04", 2020)
	require.NoError(t, err)
	assert.Equal(t, "2020-03-04", d.Format("2006-01-02"))

	for _, bad := range []string{"", "2023/02/29", "2024/13/01", "x/y/z", "2024//01"} {
		_, err := ParseDate(bad, 0)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("monthly")
	require.NoError(t, err)
	assert.Equal(t, Interval{Months: 1}, p.Interval)

	p, err = ParsePeriod("every 2 weeks from 2024/01/01 to 2024/03")
	require.NoError(t, err)
	assert.Equal(t, Interval{Days: 14}, p.Interval)
	assert.Equal(t, "2024-01-01", p.Begin.Format("2006-01-02"))
	assert.Equal(t, "2024-03-01", p.End.Format("2006-01-02"))

	next, ok := p.Next(p.Begin)
	require.True(t, ok)
	assert.Equal(t, "2024-01-15", next.Format("2006-01-02"))

	p, err = ParsePeriod("in 2024")
	require.NoError(t, err)
	assert.True(t, p.Interval.IsZero())
	assert.Equal(t, 2025, p.End.Year())

	for _, bad := range []string{"", "fortnightly", "every", "every 0 days", "from", "from 2024 to 2023", "every 3 eons"} {
		_, err := ParsePeriod(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
