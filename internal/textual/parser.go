// Package textual reads ledger journals written in the plain-text format and
// writes them back with selected entries reformatted.
package textual

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/juev/ledger-textual/internal/account"
	"github.com/juev/ledger-textual/internal/include"
	"github.com/juev/ledger-textual/internal/journal"
)

// OptionProcessor applies "--name value" lines found in a journal.
type OptionProcessor interface {
	Process(name, value string) error
}

type Parser struct {
	logger  *zap.Logger
	limits  include.Limits
	options OptionProcessor
	errors  []*ParseError
}

type Option func(*Parser)

func WithLogger(logger *zap.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithLimits(limits include.Limits) Option {
	return func(p *Parser) {
		p.limits = limits
	}
}

func WithOptions(options OptionProcessor) Option {
	return func(p *Parser) {
		p.options = options
	}
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{
		logger: zap.NewNop(),
		limits: include.DefaultLimits(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Errors returns the failures recovered from during the last parse, in the
// order they were met, including those inside included files.
func (p *Parser) Errors() []*ParseError {
	return p.errors
}

// ParseFile opens path and parses it; see Parse.
func (p *Parser) ParseFile(path string, j *journal.Journal, master *account.Account) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return p.Parse(f, j, master, path)
}

// Parse reads a journal from r into j, recording path as a new source. A
// nil master means the journal's own root account. Failing lines are
// logged and skipped; if any failed, the result is an *AggregateError.
// Otherwise the count of ordinary and timelog entries is returned,
// including those from included files.
func (p *Parser) Parse(r io.Reader, j *journal.Journal, master *account.Account, path string) (int, error) {
	if master == nil {
		master = j.Master
	}
	p.errors = nil

	ctx := &Context{
		Path:    path,
		journal: j,
		tracker: include.NewTracker(p.limits),
	}
	ctx.tracker.Push(path)
	ctx.FileIndex = j.AddSource(path)

	count, failures := p.parseStream(ctx, r, master)

	if ctx.autoHook != nil {
		j.RemoveFinalizer(ctx.autoHook)
	}
	if failures > 0 {
		return 0, &AggregateError{Path: path, Count: failures}
	}
	return count, nil
}

// parseStream runs the per-line recovery loop over one file.
func (p *Parser) parseStream(ctx *Context, r io.Reader, master *account.Account) (count, failures int) {
	ctx.reader = newLineReader(r)
	ctx.Accounts = []*account.Account{master}
	ctx.Line = 0

	for {
		begin := ctx.reader.Offset()
		line, err := ctx.reader.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			p.report(ctx.wrap(ErrorGeneric, err, "read failed"))
			failures++
			break
		}
		ctx.Line++

		n, err := p.dispatch(ctx, line, begin)
		if err != nil {
			p.report(ctx.located(err, ErrorGeneric))
			failures++
			continue
		}
		count += n
	}
	return count, failures
}

func (p *Parser) report(err *ParseError) {
	p.logger.Error("parse error",
		zap.String("path", err.Path),
		zap.Int("line", err.Line),
		zap.Stringer("kind", err.Kind),
		zap.Error(err),
	)
	p.errors = append(p.errors, err)
}
