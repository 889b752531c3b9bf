package journal

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/juev/ledger-textual/internal/amount"
)

func compilePredicate(predicate string) (*regexp.Regexp, error) {
	pattern := strings.TrimSpace(predicate)
	if len(pattern) >= 2 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
		pattern = pattern[1 : len(pattern)-1]
	}
	if pattern == "" {
		return nil, fmt.Errorf("empty automated entry predicate")
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid automated entry predicate %q: %w", predicate, err)
	}
	return re, nil
}

// Matches reports whether the automated entry applies to p.
func (e *Entry) Matches(p *Posting) bool {
	return e.matcher != nil && p.Account != nil && e.matcher.MatchString(p.Account.FullName())
}

// Extend appends generated postings to target for every posting it already
// has that matches the predicate. A template amount without a commodity
// scales the matched amount; one with a commodity is used as is.
func (e *Entry) Extend(target *Entry) {
	if e.Kind != KindAutomated {
		return
	}
	initial := make([]*Posting, len(target.Postings))
	copy(initial, target.Postings)

	for _, matched := range initial {
		if matched.Has(FlagAuto) || !e.Matches(matched) {
			continue
		}
		for _, tmpl := range e.Postings {
			if tmpl.Amount == nil {
				continue
			}
			var a amount.Amount
			if tmpl.Amount.Commodity == nil {
				if matched.Amount == nil {
					continue
				}
				a = matched.Amount.Mul(*tmpl.Amount).RoundToCommodity()
			} else {
				a = *tmpl.Amount
			}
			target.AddPosting(&Posting{
				Account: tmpl.Account,
				Amount:  &a,
				Note:    tmpl.Note,
				Flags:   tmpl.Flags | FlagAuto,
			})
		}
	}
}

// AutoEntryFinalizer extends each added entry with the journal's automated entries.
type AutoEntryFinalizer struct {
	journal *Journal
}

func NewAutoEntryFinalizer(j *Journal) *AutoEntryFinalizer {
	return &AutoEntryFinalizer{journal: j}
}

func (f *AutoEntryFinalizer) FinalizeEntry(e *Entry) error {
	f.journal.ExtendEntryBase(e)
	return nil
}
