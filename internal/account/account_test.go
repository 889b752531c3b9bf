package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOrCreate(t *testing.T) {
	master := NewMaster()

	food := master.FindOrCreate("Expenses:Food:Groceries")
	assert.Equal(t, "Groceries", food.Name)
	assert.Equal(t, "Expenses:Food:Groceries", food.FullName())
	assert.Equal(t, 3, food.Depth())

	again := master.FindOrCreate("expenses:FOOD:groceries")
	assert.Same(t, food, again)

	require.Len(t, master.Children(), 1)
	assert.Equal(t, "Expenses", master.Children()[0].Name)
}

func TestFindOrCreate_Relative(t *testing.T) {
	master := NewMaster()
	client := master.FindOrCreate("Work:Client")

	project := client.FindOrCreate("Project A")
	assert.Equal(t, "Work:Client:Project A", project.FullName())
}

func TestFind(t *testing.T) {
	master := NewMaster()
	master.FindOrCreate("Assets:Cash")

	acct, ok := master.Find("assets:cash")
	require.True(t, ok)
	assert.Equal(t, "Assets:Cash", acct.FullName())

	_, ok = master.Find("Assets:Bank")
	assert.False(t, ok)
}

func TestMasterFullName(t *testing.T) {
	assert.Equal(t, "", NewMaster().FullName())
}
