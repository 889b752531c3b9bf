package journal

import (
	"regexp"
	"time"

	"github.com/juev/ledger-textual/internal/account"
	"github.com/juev/ledger-textual/internal/amount"
)

type Kind int

const (
	KindOrdinary Kind = iota
	KindAutomated
	KindPeriodic
)

func (k Kind) String() string {
	switch k {
	case KindAutomated:
		return "automated"
	case KindPeriodic:
		return "periodic"
	default:
		return "ordinary"
	}
}

type State int

const (
	StateUncleared State = iota
	StateCleared
	StatePending
)

type PostingFlags uint8

const (
	FlagVirtual PostingFlags = 1 << iota
	FlagBalance
	// FlagAuto marks postings generated by an automated entry.
	FlagAuto
	// FlagCalculated marks a posting whose amount was inferred while balancing.
	FlagCalculated
)

type Posting struct {
	Entry   *Entry
	Account *account.Account
	Amount  *amount.Amount
	// Cost is the total price of Amount, present only when "@" or "@@" was given.
	Cost  *amount.Amount
	Note  string
	Flags PostingFlags
}

func (p *Posting) Has(f PostingFlags) bool {
	return p.Flags&f != 0
}

// MustBalance reports whether the posting takes part in balancing: real
// postings and [bracketed] virtual ones do, (parenthesized) ones do not.
func (p *Posting) MustBalance() bool {
	return !p.Has(FlagVirtual) || p.Has(FlagBalance)
}

// SourceRange is the [Begin, End) byte span of an entry in Journal.Sources[FileIndex].
type SourceRange struct {
	FileIndex int
	Begin     int64
	End       int64
}

type Entry struct {
	Kind  Kind
	Date  time.Time
	State State
	Code  string
	Payee string

	Predicate  string
	PeriodText string
	Period     *Period

	Postings []*Posting
	Source   SourceRange

	matcher *regexp.Regexp
}

func NewEntry() *Entry {
	return &Entry{Kind: KindOrdinary}
}

// NewAutoEntry creates an automated entry whose predicate is an account
// pattern, written either bare or between slashes.
func NewAutoEntry(predicate string) (*Entry, error) {
	re, err := compilePredicate(predicate)
	if err != nil {
		return nil, err
	}
	return &Entry{Kind: KindAutomated, Predicate: predicate, matcher: re}, nil
}

func NewPeriodEntry(text string) (*Entry, error) {
	period, err := ParsePeriod(text)
	if err != nil {
		return nil, err
	}
	return &Entry{Kind: KindPeriodic, PeriodText: text, Period: period}, nil
}

func (e *Entry) AddPosting(p *Posting) {
	p.Entry = e
	e.Postings = append(e.Postings, p)
}
