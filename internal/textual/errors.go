package textual

import (
	"errors"
	"fmt"

	"github.com/juev/ledger-textual/internal/amount"
)

var (
	ErrMalformedSymbol = errors.New("quoted commodity symbol lacks closing quote")
	ErrEmptySymbol     = errors.New("failed to parse commodity")
	ErrSourceNotFound  = errors.New("journal does not refer to file")
	ErrNoSources       = errors.New("journal has no source files")
)

type ErrorKind int

const (
	ErrorGeneric ErrorKind = iota
	ErrorMalformedDate
	ErrorMalformedSymbol
	ErrorEmptySymbol
	ErrorCostWithoutAmount
	ErrorBalanceExpression
	ErrorUnexpectedIndent
	ErrorBadTimelogDate
	ErrorTimelogRecord
	ErrorUnbalancedEntry
	ErrorUnbalancedAutomatedEntry
	ErrorUnbalancedPeriodicEntry
	ErrorEntryParseFailure
	ErrorBadPeriod
	ErrorBadPredicate
	ErrorAccountStack
	ErrorInclude
	ErrorAmount
	ErrorOption
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorMalformedDate:
		return "malformed date"
	case ErrorMalformedSymbol:
		return "malformed symbol"
	case ErrorEmptySymbol:
		return "empty symbol"
	case ErrorCostWithoutAmount:
		return "cost without amount"
	case ErrorBalanceExpression:
		return "balance expression"
	case ErrorUnexpectedIndent:
		return "unexpected indent"
	case ErrorBadTimelogDate:
		return "bad timelog date"
	case ErrorTimelogRecord:
		return "timelog record"
	case ErrorUnbalancedEntry:
		return "unbalanced entry"
	case ErrorUnbalancedAutomatedEntry:
		return "unbalanced automated entry"
	case ErrorUnbalancedPeriodicEntry:
		return "unbalanced periodic entry"
	case ErrorEntryParseFailure:
		return "entry parse failure"
	case ErrorBadPeriod:
		return "bad period"
	case ErrorBadPredicate:
		return "bad predicate"
	case ErrorAccountStack:
		return "account stack"
	case ErrorInclude:
		return "include"
	case ErrorAmount:
		return "amount"
	case ErrorOption:
		return "option"
	default:
		return "error"
	}
}

// ParseError is a failure located at a line of a source file.
type ParseError struct {
	Path    string
	Line    int
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return fmt.Sprintf("%s, line %d: %s", e.Path, e.Line, msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// AggregateError is returned by a parse that recovered from Count failures.
type AggregateError struct {
	Path  string
	Count int
}

func (e *AggregateError) Error() string {
	return fmt.Sprintf("errors parsing file '%s' (%d)", e.Path, e.Count)
}

func (c *Context) errorf(kind ErrorKind, format string, args ...any) *ParseError {
	return &ParseError{Path: c.Path, Line: c.Line, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (c *Context) wrap(kind ErrorKind, err error, message string) *ParseError {
	return c.failAt(c.Line, kind, err, message)
}

func (c *Context) failAt(line int, kind ErrorKind, err error, message string) *ParseError {
	return &ParseError{Path: c.Path, Line: line, Kind: kind, Message: message, Err: err}
}

// located returns err as a ParseError, wrapping anything else with kind at
// the current line.
func (c *Context) located(err error, kind ErrorKind) *ParseError {
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr
	}
	var aerr *amount.Error
	if errors.As(err, &aerr) && kind == ErrorGeneric {
		kind = ErrorAmount
	}
	return c.wrap(kind, err, "")
}

func (c *Context) symbolError(err error) *ParseError {
	switch {
	case errors.Is(err, ErrMalformedSymbol):
		return c.wrap(ErrorMalformedSymbol, err, "")
	case errors.Is(err, ErrEmptySymbol):
		return c.wrap(ErrorEmptySymbol, err, "")
	}
	return c.located(err, ErrorGeneric)
}
