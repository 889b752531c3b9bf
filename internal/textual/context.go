package textual

import (
	"time"

	"github.com/juev/ledger-textual/internal/account"
	"github.com/juev/ledger-textual/internal/include"
	"github.com/juev/ledger-textual/internal/journal"
)

// Context is the mutable state of one parse session. Includes share it and
// save and restore the fields that describe the current file.
type Context struct {
	Path      string
	Line      int
	FileIndex int
	// Accounts is the !account scope stack; the last element is innermost.
	Accounts []*account.Account
	// Year completes dates written without one; zero means the current year.
	Year int

	journal  *journal.Journal
	reader   *lineReader
	tracker  *include.Tracker
	clock    *timelogClock
	autoHook *journal.AutoEntryFinalizer
}

type timelogClock struct {
	in      time.Time
	account *account.Account
	desc    string
}

// Account returns the innermost account scope.
func (c *Context) Account() *account.Account {
	return c.Accounts[len(c.Accounts)-1]
}

type fileScope struct {
	path      string
	line      int
	fileIndex int
	accounts  []*account.Account
	reader    *lineReader
}

func (c *Context) save() fileScope {
	return fileScope{
		path:      c.Path,
		line:      c.Line,
		fileIndex: c.FileIndex,
		accounts:  c.Accounts,
		reader:    c.reader,
	}
}

func (c *Context) restore(s fileScope) {
	c.Path = s.path
	c.Line = s.line
	c.FileIndex = s.fileIndex
	c.Accounts = s.accounts
	c.reader = s.reader
}
