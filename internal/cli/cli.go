// Package cli implements the ledger-textual commands.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/juev/ledger-textual/internal/config"
	"github.com/juev/ledger-textual/internal/journal"
	"github.com/juev/ledger-textual/internal/textual"
	"github.com/juev/ledger-textual/internal/workspace"
)

// ErrFailed is returned by a command whose problems were already reported.
var ErrFailed = errors.New("command failed")

var (
	successSymbol = "✓"
	errorSymbol   = "✗"

	successStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

func printSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", successStyle.Render(successSymbol), message)
}

func printError(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", errorStyle.Render(errorSymbol), errorStyle.Render(message))
}

// Globals defines flags available to all commands.
type Globals struct {
	Debug bool   `help:"Log parser diagnostics to stderr."`
	Env   string `help:"Load environment from this .env file." type:"path"`
}

type Commands struct {
	Globals

	Check   CheckCmd   `cmd:"" help:"Parse a journal and report errors."`
	Print   PrintCmd   `cmd:"" help:"Rewrite a journal with every entry reformatted."`
	Prices  PricesCmd  `cmd:"" help:"List recorded commodity prices."`
	Balance BalanceCmd `cmd:"" help:"Show account balances per commodity."`
}

func newLogger(w io.Writer, debug bool) *zap.Logger {
	if !debug {
		return zap.NewNop()
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return zap.New(core, zap.Development())
}

// discover looks for the root journal of the working directory.
func discover() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	root, err := workspace.New(cwd).FindRootJournal()
	if err != nil {
		return "", err
	}
	if root == "" {
		return "", fmt.Errorf("no journal given, %s is not set and none was found in %s", config.EnvFile, cwd)
	}
	return root, nil
}

// session is a journal loaded with the configured price database.
type session struct {
	config  *config.Config
	journal *journal.Journal
	file    string
	count   int
	errors  []*textual.ParseError
}

func (g *Globals) load(file string, stderr io.Writer) (*session, error) {
	cfg, err := config.Load(g.Env)
	if err != nil {
		return nil, err
	}
	if file == "" {
		file = cfg.File
	}
	if file == "" {
		if file, err = discover(); err != nil {
			return nil, err
		}
	}

	logger := newLogger(stderr, g.Debug)
	defer func() { _ = logger.Sync() }()

	p := textual.NewParser(
		textual.WithLogger(logger),
		textual.WithLimits(cfg.Limits),
		textual.WithOptions(cfg),
	)
	s := &session{config: cfg, journal: journal.New(), file: file}

	if cfg.PriceDB != "" {
		if _, err := p.ParseFile(cfg.PriceDB, s.journal, nil); err != nil {
			if !s.collect(p, err) {
				return nil, err
			}
		}
	}
	s.count, err = p.ParseFile(file, s.journal, nil)
	if err != nil && !s.collect(p, err) {
		return nil, err
	}
	return s, nil
}

// collect keeps the per-line errors behind an aggregate failure and reports
// whether err was one.
func (s *session) collect(p *textual.Parser, err error) bool {
	var agg *textual.AggregateError
	if !errors.As(err, &agg) {
		return false
	}
	s.errors = append(s.errors, p.Errors()...)
	return true
}

// report renders each error with the offending source line.
func (s *session) report(w io.Writer) {
	sources := make(map[string][]string)
	for _, perr := range s.errors {
		_, _ = fmt.Fprintln(w, errorStyle.Render(perr.Error()))
		lines, ok := sources[perr.Path]
		if !ok {
			if data, err := os.ReadFile(perr.Path); err == nil {
				lines = strings.Split(string(data), "\n")
			}
			sources[perr.Path] = lines
		}
		if perr.Line > 0 && perr.Line <= len(lines) {
			_, _ = fmt.Fprintf(w, "   %s\n", errContextStyle.Render(lines[perr.Line-1]))
		}
		_, _ = fmt.Fprintln(w)
	}
	printError(w, fmt.Sprintf("%d error(s) found", len(s.errors)))
}
