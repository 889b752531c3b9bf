package include

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Tracker follows the chain of files currently being parsed so that
// recursive includes can be bounded and cycles reported.
type Tracker struct {
	limits Limits
	chain  []string
}

func NewTracker(limits Limits) *Tracker {
	if limits.MaxIncludeDepth <= 0 {
		limits.MaxIncludeDepth = DefaultLimits().MaxIncludeDepth
	}
	return &Tracker{limits: limits}
}

func (t *Tracker) Limits() Limits {
	return t.limits
}

// Enter records path as the innermost open file. It fails on cycles, when
// the depth limit is reached, and when the file is missing or too large.
func (t *Tracker) Enter(path string) error {
	key := canonical(path)
	for _, open := range t.chain {
		if open == key {
			return &Error{
				Kind:    ErrorCycleDetected,
				Path:    path,
				Message: fmt.Sprintf("%s includes itself via %s", path, strings.Join(t.chain, " -> ")),
			}
		}
	}
	if len(t.chain) > t.limits.MaxIncludeDepth {
		return &Error{
			Kind:    ErrorDepthExceeded,
			Path:    path,
			Message: fmt.Sprintf("cannot include %s: more than %d nested includes", path, t.limits.MaxIncludeDepth),
		}
	}
	if err := t.checkFile(path); err != nil {
		return err
	}
	t.chain = append(t.chain, key)
	return nil
}

// Push records path as the outermost file without checking it on disk; the
// top-level journal may come from any reader.
func (t *Tracker) Push(path string) {
	t.chain = append(t.chain, canonical(path))
}

func (t *Tracker) Leave() {
	if len(t.chain) > 0 {
		t.chain = t.chain[:len(t.chain)-1]
	}
}

func (t *Tracker) Depth() int {
	return len(t.chain)
}

func (t *Tracker) checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		kind := ErrorReadError
		if os.IsNotExist(err) {
			kind = ErrorFileNotFound
		}
		return &Error{Kind: kind, Path: path, Message: fmt.Sprintf("cannot read file: %v", err)}
	}
	if t.limits.MaxFileSizeBytes > 0 && info.Size() > t.limits.MaxFileSizeBytes {
		return &Error{
			Kind:    ErrorFileTooLarge,
			Path:    path,
			Message: fmt.Sprintf("%s is %d bytes, limit is %d", path, info.Size(), t.limits.MaxFileSizeBytes),
		}
	}
	return nil
}

// canonical resolves symlinks where possible so the same file reached through
// different spellings is recognised.
func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// SamePath reports whether a and b name the same file.
func SamePath(a, b string) bool {
	return a == b || canonical(a) == canonical(b)
}
