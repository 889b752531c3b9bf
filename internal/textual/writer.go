package textual

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/juev/ledger-textual/internal/include"
	"github.com/juev/ledger-textual/internal/journal"
)

// PostingFormatter renders entries for WriteTextual. Flush is called once
// after the last posting of each entry and may return buffered text.
type PostingFormatter interface {
	FormatHeader(e *journal.Entry) string
	FormatPosting(p *journal.Posting) string
	Flush() string
}

// WriteTextual copies the source file path of j to w, replacing the byte
// range of every entry parsed from it with a fresh rendering.
func WriteTextual(j *journal.Journal, path string, f PostingFormatter, w io.Writer) error {
	if len(j.Sources) == 0 {
		return ErrNoSources
	}
	index := -1
	for i, src := range j.Sources {
		if include.SamePath(path, src) {
			index = i
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("%w '%s'", ErrSourceNotFound, path)
	}

	in, err := os.Open(j.Sources[index])
	if err != nil {
		return err
	}
	defer in.Close()

	out := bufio.NewWriter(w)
	if err := replay(bufio.NewReader(in), out, j, index, f); err != nil {
		return err
	}
	return out.Flush()
}

type entryCursor struct {
	entries []*journal.Entry
}

func (c *entryCursor) peek() *journal.Entry {
	if len(c.entries) == 0 {
		return nil
	}
	return c.entries[0]
}

func recorded(entries []*journal.Entry) []*journal.Entry {
	var out []*journal.Entry
	for _, e := range entries {
		if e.Source.End > e.Source.Begin {
			out = append(out, e)
		}
	}
	return out
}

func replay(in *bufio.Reader, out *bufio.Writer, j *journal.Journal, index int, f PostingFormatter) error {
	cursors := []*entryCursor{
		{entries: recorded(j.EntriesIn(journal.KindOrdinary, index))},
		{entries: recorded(j.EntriesIn(journal.KindAutomated, index))},
		{entries: recorded(j.EntriesIn(journal.KindPeriodic, index))},
	}

	var pos int64
	for {
		var next *entryCursor
		for _, c := range cursors {
			e := c.peek()
			if e == nil {
				continue
			}
			if next == nil || e.Source.Begin < next.peek().Source.Begin {
				next = c
			}
		}
		if next == nil {
			break
		}
		e := next.peek()
		next.entries = next.entries[1:]
		if e.Source.Begin < pos {
			continue
		}

		n, err := io.CopyN(out, in, e.Source.Begin-pos)
		pos += n
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		writeEntry(out, e, f)

		skipped, err := in.Discard(int(e.Source.End - e.Source.Begin))
		pos += int64(skipped)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}

	_, err := io.Copy(out, in)
	return err
}

func writeEntry(out *bufio.Writer, e *journal.Entry, f PostingFormatter) {
	switch e.Kind {
	case journal.KindAutomated:
		out.WriteString("= " + e.Predicate + "\n")
	case journal.KindPeriodic:
		out.WriteString("~ " + e.PeriodText + "\n")
	default:
		out.WriteString(f.FormatHeader(e))
	}
	for _, p := range e.Postings {
		if p.Has(journal.FlagAuto) {
			continue
		}
		out.WriteString(f.FormatPosting(p))
	}
	out.WriteString(f.Flush())
}
