package textual

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juev/ledger-textual/internal/journal"
)

// plainFormatter renders entries in the layout used by the fixtures below.
type plainFormatter struct {
	flushes int
}

func (f *plainFormatter) FormatHeader(e *journal.Entry) string {
	var sb strings.Builder
	sb.WriteString(e.Date.Format("2006/01/02"))
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

func (f *plainFormatter) FormatPosting(p *journal.Posting) string {
	name := p.Account.FullName()
	switch {
	case p.Has(journal.FlagBalance):
		name = "[" + name + "]"
	case p.Has(journal.FlagVirtual):
		name = "(" + name + ")"
	}
	if p.Amount == nil || p.Has(journal.FlagCalculated) {
		return "    " + name + "\n"
	}
	return "    " + name + "  " + p.Amount.String() + "\n"
}

func (f *plainFormatter) Flush() string {
	f.flushes++
	return ""
}

const roundTripJournal = `; opening comment
2024/01/01 * (42) Opening
    Assets:Cash  $100.00
    Equity:Opening

= /Food/
    (Budget:Food)  -1

~ monthly
    Expenses:Rent  $500.00
    Assets:Cash

2024/01/15 Grocery
    Expenses:Food  $25.00
    Assets:Cash
P 2024/01/15 10:00:00 AAPL $150.00
i 2024/01/16 09:00:00 Work
o 2024/01/16 10:00:00
`

func parseFixture(t *testing.T, content string) (*journal.Journal, string) {
	t.Helper()
	path := writeJournal(t, t.TempDir(), "main.journal", content)
	j := journal.New()
	p := NewParser()
	_, err := p.ParseFile(path, j, nil)
	require.NoError(t, err, "errors: %v", p.Errors())
	return j, path
}

func TestWriteTextual_RoundTrip(t *testing.T) {
	j, path := parseFixture(t, roundTripJournal)
	require.Len(t, j.Entries, 3)
	require.Len(t, j.AutoEntries, 1)
	require.Len(t, j.PeriodEntries, 1)

	f := &plainFormatter{}
	var out bytes.Buffer
	require.NoError(t, WriteTextual(j, path, f, &out))

	assert.Equal(t, roundTripJournal, out.String())
	assert.Equal(t, 4, f.flushes)
}

func TestWriteTextual_ReformatsEntries(t *testing.T) {
	source := "; keep me\n2024/01/15   Grocery\n    Expenses:Food      $25.00   ; lunch\n\tAssets:Cash\n\n; trailing\n"
	j, path := parseFixture(t, source)
	j.Entries[0].Payee = "Grocery Store"

	var out bytes.Buffer
	require.NoError(t, WriteTextual(j, path, &plainFormatter{}, &out))

	want := "; keep me\n2024/01/15 Grocery Store\n    Expenses:Food  $25.00\n    Assets:Cash\n\n; trailing\n"
	assert.Equal(t, want, out.String())
}

func TestWriteTextual_OnlyEntriesOfTheFile(t *testing.T) {
	dir := t.TempDir()
	mainPath := writeJournal(t, dir, "main.journal", "!include inc.journal\n2024/01/01  Main\n    A  $1\n    B\n")
	incPath := writeJournal(t, dir, "inc.journal", "2024/01/02  Included\n    C  $2\n    D\n")

	j := journal.New()
	_, err := NewParser().ParseFile(mainPath, j, nil)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, WriteTextual(j, incPath, &plainFormatter{}, &out))
	assert.Equal(t, "2024/01/02 Included\n    C  $2\n    D\n", out.String())

	out.Reset()
	require.NoError(t, WriteTextual(j, mainPath, &plainFormatter{}, &out))
	assert.Equal(t, "!include inc.journal\n2024/01/01 Main\n    A  $1\n    B\n", out.String())
}

func TestWriteTextual_FindsSourceThroughSymlink(t *testing.T) {
	j, path := parseFixture(t, "2024/01/01 X\n    A  $1\n    B\n")
	link := filepath.Join(t.TempDir(), "link.journal")
	if err := os.Symlink(path, link); err != nil {
		t.Skip("symlinks unsupported")
	}

	var out bytes.Buffer
	require.NoError(t, WriteTextual(j, link, &plainFormatter{}, &out))
	assert.Equal(t, "2024/01/01 X\n    A  $1\n    B\n", out.String())
}

func TestWriteTextual_Errors(t *testing.T) {
	var out bytes.Buffer
	err := WriteTextual(journal.New(), "main.journal", &plainFormatter{}, &out)
	assert.ErrorIs(t, err, ErrNoSources)

	j, _ := parseFixture(t, "; nothing\n")
	err = WriteTextual(j, filepath.Join(t.TempDir(), "other.journal"), &plainFormatter{}, &out)
	assert.ErrorIs(t, err, ErrSourceNotFound)
	assert.Empty(t, out.String())
}
