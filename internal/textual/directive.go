package textual

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/juev/ledger-textual/internal/include"
	"github.com/juev/ledger-textual/internal/journal"
)

const timelogLayout = "2006/01/02 15:04:05"

// dispatch handles one top-level line. begin is the offset of the line in
// the current file; it opens the byte range of any entry read here. The
// returned count is the number of ordinary entries added.
func (p *Parser) dispatch(ctx *Context, line string, begin int64) (int, error) {
	if line == "" {
		return 0, nil
	}

	switch line[0] {
	case 0, '\r':

	case ' ', '\t':
		if strings.TrimSpace(line) != "" {
			return 0, ctx.errorf(ErrorUnexpectedIndent, "line begins with whitespace")
		}

	case 'i', 'I':
		return 0, p.clockIn(ctx, line)

	case 'o', 'O':
		return p.clockOut(ctx, line)

	case 'D':
		_, err := ctx.journal.Commodities.SetDefault(skipWS(line[1:]))
		return 0, err

	case 'C':
		if lhs, rhs, ok := strings.Cut(line[1:], "="); ok {
			return 0, ctx.journal.Commodities.AddConversion(lhs, rhs)
		}

	case 'P':
		return 0, p.price(ctx, line)

	case 'N':
		symbol, _, err := parseSymbol(skipWS(line[1:]))
		if err != nil {
			return 0, ctx.symbolError(err)
		}
		ctx.journal.Commodities.FindOrCreate(symbol).NoMarket = true

	case 'Y':
		year, err := strconv.Atoi(strings.TrimSpace(line[1:]))
		if err != nil {
			return 0, ctx.wrap(ErrorMalformedDate, err, "invalid year")
		}
		ctx.Year = year

	case 'h', 'b', ';':

	case '-':
		return 0, p.option(ctx, line)

	case '=':
		return 0, p.automated(ctx, line, begin)

	case '~':
		return 0, p.periodic(ctx, line, begin)

	case '!':
		return p.directive(ctx, line)

	default:
		return p.entry(ctx, line, begin)
	}
	return 0, nil
}

func (p *Parser) entry(ctx *Context, line string, begin int64) (int, error) {
	header := ctx.Line
	e, err := parseEntry(ctx, line)
	if err != nil {
		return 0, err
	}
	e.Source = journal.SourceRange{FileIndex: ctx.FileIndex, Begin: begin, End: ctx.reader.Offset()}

	if err := ctx.journal.AddEntry(e); err != nil {
		p.logger.Error("entry does not balance",
			zap.String("path", ctx.Path),
			zap.Int("line", header),
			zap.String("entry", e.String()),
		)
		return 0, ctx.failAt(header, ErrorUnbalancedEntry, err, "")
	}
	return 1, nil
}

func (p *Parser) automated(ctx *Context, line string, begin int64) error {
	if ctx.autoHook == nil {
		ctx.autoHook = journal.NewAutoEntryFinalizer(ctx.journal)
		ctx.journal.AddFinalizer(ctx.autoHook)
	}

	header := ctx.Line
	ae, err := journal.NewAutoEntry(strings.TrimSpace(line[1:]))
	if err != nil {
		perr := ctx.wrap(ErrorBadPredicate, err, "")
		skipBody(ctx)
		return perr
	}

	added, err := parsePostings(ctx, ae)
	if err != nil || !added {
		return err
	}
	if err := ae.Finalize(); err != nil {
		return ctx.failAt(header, ErrorUnbalancedAutomatedEntry, err, "automated entry failed to balance")
	}
	ae.Source = journal.SourceRange{FileIndex: ctx.FileIndex, Begin: begin, End: ctx.reader.Offset()}
	ctx.journal.AddAutoEntry(ae)
	return nil
}

func (p *Parser) periodic(ctx *Context, line string, begin int64) error {
	header := ctx.Line
	pe, err := journal.NewPeriodEntry(strings.TrimSpace(line[1:]))
	if err != nil {
		perr := ctx.wrap(ErrorBadPeriod, err, fmt.Sprintf("parsing time period '%s'", line))
		skipBody(ctx)
		return perr
	}

	added, err := parsePostings(ctx, pe)
	if err != nil || !added {
		return err
	}
	if err := pe.Finalize(); err != nil {
		return ctx.failAt(header, ErrorUnbalancedPeriodicEntry, err, "period entry failed to balance")
	}
	ctx.journal.ExtendEntryBase(pe)
	pe.Source = journal.SourceRange{FileIndex: ctx.FileIndex, Begin: begin, End: ctx.reader.Offset()}
	ctx.journal.AddPeriodEntry(pe)
	return nil
}

// price reads "P DATE HH:MM:SS SYMBOL AMOUNT". A missing or malformed time
// makes the whole line a no-op.
func (p *Parser) price(ctx *Context, line string) error {
	dateText, rest, ok := strings.Cut(skipWS(line[1:]), " ")
	if !ok {
		return nil
	}
	date, err := journal.ParseDate(dateText, ctx.Year)
	if err != nil {
		return ctx.wrap(ErrorMalformedDate, err, "failed to parse date")
	}

	clock, rest, ok := fixedClock(rest)
	if !ok {
		p.logger.Debug("skipping price without a valid time",
			zap.String("path", ctx.Path), zap.Int("line", ctx.Line))
		return nil
	}

	symbol, rest, err := parseSymbol(rest)
	if err != nil {
		return ctx.symbolError(err)
	}
	price, err := ctx.journal.Commodities.Parse(skipWS(rest), 0)
	if err != nil {
		return err
	}
	ctx.journal.Commodities.FindOrCreate(symbol).AddPrice(date.Add(clock), price)
	return nil
}

// fixedClock reads two digits for each of hours, minutes and seconds, each
// followed by one filler character, and requires text after them.
func fixedClock(s string) (time.Duration, string, bool) {
	var fields [3]int
	for i := range fields {
		if len(s) < 3 || !isDigit(s[0]) || !isDigit(s[1]) {
			return 0, s, false
		}
		fields[i] = int(s[0]-'0')*10 + int(s[1]-'0')
		s = s[3:]
	}
	if s == "" {
		return 0, s, false
	}
	d := time.Duration(fields[0])*time.Hour +
		time.Duration(fields[1])*time.Minute +
		time.Duration(fields[2])*time.Second
	return d, s, true
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// option forwards "--name value" or "--name=value" to the option processor.
func (p *Parser) option(ctx *Context, line string) error {
	name, value := line, ""
	i := strings.IndexByte(line, ' ')
	if i < 0 {
		i = strings.IndexByte(line, '=')
	}
	if i >= 0 {
		name, value = line[:i], skipWS(line[i+1:])
	}
	name = strings.TrimLeft(name, "-")

	if p.options == nil {
		p.logger.Debug("ignoring option", zap.String("name", name))
		return nil
	}
	if err := p.options.Process(name, value); err != nil {
		return ctx.wrap(ErrorOption, err, "")
	}
	return nil
}

// timelogStamp reads the fixed-width timestamp at offset 2 of a timelog
// line and returns the text after it.
func timelogStamp(line string) (time.Time, string, error) {
	if len(line) < 21 {
		return time.Time{}, "", fmt.Errorf("timelog line %q is too short", line)
	}
	when, err := time.ParseInLocation(timelogLayout, line[2:21], time.Local)
	if err != nil {
		return time.Time{}, "", err
	}
	return when, skipWS(line[21:]), nil
}

func (p *Parser) clockIn(ctx *Context, line string) error {
	when, rest, err := timelogStamp(line)
	if err != nil {
		ctx.clock = nil
		return ctx.wrap(ErrorBadTimelogDate, err, "cannot parse timelog entry date")
	}
	name, desc, _ := splitToken(rest, true)
	if name == "" {
		ctx.clock = nil
		return ctx.errorf(ErrorTimelogRecord, "timelog entry lacks an account")
	}
	ctx.clock = &timelogClock{
		in:      when,
		account: ctx.Account().FindOrCreate(name),
		desc:    desc,
	}
	return nil
}

// clockOut closes the open clock with a cleared entry holding one virtual
// posting of the elapsed seconds. Without an open clock it does nothing.
func (p *Parser) clockOut(ctx *Context, line string) (int, error) {
	clock := ctx.clock
	if clock == nil {
		return 0, nil
	}

	when, rest, err := timelogStamp(line)
	if err != nil {
		return 0, ctx.wrap(ErrorBadTimelogDate, err, "cannot parse timelog entry date")
	}
	if clock.desc == "" {
		clock.desc = strings.TrimSpace(rest)
	}

	elapsed, err := ctx.journal.Commodities.Parse(fmt.Sprintf("%ds", int64(when.Sub(clock.in)/time.Second)), 0)
	if err != nil {
		return 0, err
	}

	e := journal.NewEntry()
	e.Date = when
	e.State = journal.StateCleared
	e.Payee = clock.desc
	e.AddPosting(&journal.Posting{
		Account: clock.account,
		Amount:  &elapsed,
		Flags:   journal.FlagVirtual,
	})
	e.Source.FileIndex = ctx.FileIndex

	if err := ctx.journal.AddEntry(e); err != nil {
		return 0, ctx.wrap(ErrorTimelogRecord, err, "failed to record 'out' timelog entry")
	}
	ctx.clock = nil
	return 1, nil
}

// directive handles "!word argument" lines.
func (p *Parser) directive(ctx *Context, line string) (int, error) {
	word, arg, _ := strings.Cut(line[1:], " ")
	arg = strings.TrimSpace(arg)

	switch word {
	case "include":
		return p.include(ctx, arg)
	case "account":
		ctx.Accounts = append(ctx.Accounts, ctx.Account().FindOrCreate(arg))
	case "end":
		if len(ctx.Accounts) <= 1 {
			return 0, ctx.errorf(ErrorAccountStack, "!end without a matching !account")
		}
		ctx.Accounts = ctx.Accounts[:len(ctx.Accounts)-1]
	default:
		p.logger.Debug("ignoring directive",
			zap.String("directive", word),
			zap.String("path", ctx.Path),
			zap.Int("line", ctx.Line),
		)
	}
	return 0, nil
}

// include parses another file into the same journal. Its path is relative
// to the including file; the caller's file scope is restored afterwards.
func (p *Parser) include(ctx *Context, arg string) (int, error) {
	if arg == "" {
		return 0, ctx.errorf(ErrorInclude, "!include requires a file name")
	}
	target := include.ResolvePath(ctx.Path, arg)
	if err := ctx.tracker.Enter(target); err != nil {
		return 0, ctx.wrap(ErrorInclude, err, "")
	}
	defer ctx.tracker.Leave()

	p.logger.Debug("including file",
		zap.String("path", target),
		zap.String("from", ctx.Path),
		zap.Int("line", ctx.Line),
	)

	count, failures, err := p.parseIncluded(ctx, target)
	if err != nil {
		return 0, ctx.wrap(ErrorInclude, err, "")
	}
	if failures > 0 {
		return 0, ctx.wrap(ErrorInclude, &AggregateError{Path: target, Count: failures}, "")
	}
	return count, nil
}

func (p *Parser) parseIncluded(ctx *Context, path string) (count, failures int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	defer ctx.restore(ctx.save())

	ctx.Path = path
	ctx.FileIndex = ctx.journal.AddSource(path)
	count, failures = p.parseStream(ctx, f, ctx.Account())
	return count, failures, nil
}
