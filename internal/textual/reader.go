package textual

import (
	"bufio"
	"io"
	"strings"
)

// lineReader reads physical lines and counts the bytes it consumed, which
// gives every line a stable starting offset in the source.
type lineReader struct {
	r      *bufio.Reader
	offset int64
	eof    bool
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

func (lr *lineReader) Offset() int64 {
	return lr.offset
}

// ReadLine returns the next line without its terminator. A final line that
// lacks a newline is still returned; io.EOF is reported only after it.
func (lr *lineReader) ReadLine() (string, error) {
	if lr.eof {
		return "", io.EOF
	}
	line, err := lr.r.ReadString('\n')
	lr.offset += int64(len(line))
	if err != nil {
		if err != io.EOF {
			return "", err
		}
		lr.eof = true
		if line == "" {
			return "", io.EOF
		}
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// Indented reports whether the next line starts with a space or tab.
func (lr *lineReader) Indented() bool {
	if lr.eof {
		return false
	}
	b, err := lr.r.Peek(1)
	return err == nil && isBlank(b[0])
}
