package textual

import (
	"strings"

	"github.com/juev/ledger-textual/internal/journal"
)

const unspecifiedPayee = "<Unspecified payee>"

// parseEntry reads "DATE [*|!] [(CODE)] PAYEE" and the postings below it.
// The entry is returned unbalanced.
func parseEntry(ctx *Context, line string) (*journal.Entry, error) {
	dateText, next, _ := splitToken(line, false)
	date, err := journal.ParseDate(dateText, ctx.Year)
	if err != nil {
		perr := ctx.wrap(ErrorMalformedDate, err, "failed to parse date")
		skipBody(ctx)
		return nil, perr
	}

	e := journal.NewEntry()
	e.Date = date

	switch {
	case strings.HasPrefix(next, "*"):
		e.State = journal.StateCleared
		next = skipWS(next[1:])
	case strings.HasPrefix(next, "!"):
		e.State = journal.StatePending
		next = skipWS(next[1:])
	}

	if strings.HasPrefix(next, "(") {
		if code, after, ok := strings.Cut(next[1:], ")"); ok {
			e.Code = code
			next = skipWS(after)
		}
	}

	e.Payee = strings.TrimRight(next, " \t")
	if e.Payee == "" {
		e.Payee = unspecifiedPayee
	}

	if _, err := parsePostings(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}
