package include

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTracker_Cycle(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.journal", "")
	b := writeFile(t, dir, "b.journal", "")

	tr := NewTracker(DefaultLimits())
	require.NoError(t, tr.Enter(a))
	require.NoError(t, tr.Enter(b))

	err := tr.Enter(filepath.Join(dir, ".", "a.journal"))
	var incErr *Error
	require.ErrorAs(t, err, &incErr)
	assert.Equal(t, ErrorCycleDetected, incErr.Kind)
	assert.Equal(t, 2, tr.Depth())

	tr.Leave()
	tr.Leave()
	assert.Equal(t, 0, tr.Depth())
	require.NoError(t, tr.Enter(a))
}

func TestTracker_Depth(t *testing.T) {
	dir := t.TempDir()
	tr := NewTracker(Limits{MaxIncludeDepth: 1})
	require.NoError(t, tr.Enter(writeFile(t, dir, "top.journal", "")))
	require.NoError(t, tr.Enter(writeFile(t, dir, "one.journal", "")))

	err := tr.Enter(writeFile(t, dir, "two.journal", ""))
	var incErr *Error
	require.ErrorAs(t, err, &incErr)
	assert.Equal(t, ErrorDepthExceeded, incErr.Kind)
}

func TestTracker_FileChecks(t *testing.T) {
	dir := t.TempDir()
	tr := NewTracker(Limits{MaxIncludeDepth: 4, MaxFileSizeBytes: 8})

	var incErr *Error
	err := tr.Enter(filepath.Join(dir, "missing.journal"))
	require.ErrorAs(t, err, &incErr)
	assert.Equal(t, ErrorFileNotFound, incErr.Kind)

	err = tr.Enter(writeFile(t, dir, "big.journal", "0123456789"))
	require.ErrorAs(t, err, &incErr)
	assert.Equal(t, ErrorFileTooLarge, incErr.Kind)
	assert.Equal(t, 0, tr.Depth())
}

func TestSamePath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.journal", "")
	link := filepath.Join(dir, "link.journal")
	if err := os.Symlink(path, link); err != nil {
		t.Skip("symlinks unsupported")
	}

	assert.True(t, SamePath(path, link))
	assert.True(t, SamePath(path, filepath.Join(dir, "sub", "..", "main.journal")))
	assert.False(t, SamePath(path, filepath.Join(dir, "other.journal")))
}
