package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juev/ledger-textual/internal/journal"
	"github.com/juev/ledger-textual/internal/textual"
)

func TestGenerateJournal_ProducesNonEmptyContent(t *testing.T) {
	content := GenerateJournal(100)
	require.NotEmpty(t, content)
	assert.Contains(t, content, "2020/01/01 * (#0) Payee 0\n")
	assert.Contains(t, content, "@ $1.10")
}

func TestGenerateJournal_ParsesCleanly(t *testing.T) {
	j := journal.New()
	p := textual.NewParser()

	count, err := p.Parse(strings.NewReader(GenerateJournal(50)), j, nil, "generated.ledger")
	require.NoError(t, err)
	assert.Equal(t, 50, count)
	require.Len(t, j.Entries, 50)
	assert.Equal(t, "#0", j.Entries[0].Code)
	assert.Equal(t, journal.StateCleared, j.Entries[1].State)
}

func TestGenerateJournal_ContainsExpectedAccounts(t *testing.T) {
	content := GenerateJournal(10)

	for _, acc := range []string{"Expenses:Food:Groceries", "Assets:Bank:Checking", "Assets:Cash"} {
		assert.Contains(t, content, acc)
	}
}

func TestGenerateIncludeTree_CreatesFiles(t *testing.T) {
	tmpDir := t.TempDir()
	mainPath, err := GenerateIncludeTree(tmpDir, 3, 10)
	require.NoError(t, err)

	assert.FileExists(t, mainPath)
	for i := 0; i < 3; i++ {
		assert.FileExists(t, filepath.Join(tmpDir, fmt.Sprintf("file%d.ledger", i)))
	}

	content, err := os.ReadFile(mainPath)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		assert.Contains(t, string(content), fmt.Sprintf("!include file%d.ledger", i))
	}
}

func TestGenerateIncludeTree_ParsesCleanly(t *testing.T) {
	mainPath, err := GenerateIncludeTree(t.TempDir(), 3, 10)
	require.NoError(t, err)

	j := journal.New()
	count, err := textual.NewParser().ParseFile(mainPath, j, nil)
	require.NoError(t, err)
	assert.Equal(t, 30, count)
	assert.Len(t, j.Sources, 4)
}
