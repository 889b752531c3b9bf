package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var accounts = []string{
	"Expenses:Food:Groceries",
	"Expenses:Food:Restaurants",
	"Expenses:Transport:Fuel",
	"Expenses:Utilities:Electricity",
	"Expenses:Utilities:Water",
	"Assets:Bank:Checking",
	"Assets:Bank:Savings",
	"Assets:Cash",
	"Liabilities:Credit:Visa",
	"Income:Salary",
}

var commodities = []string{"$", "EUR", "RUB"}

func formatAmount(commodity string, cents int) string {
	if commodity == "$" {
		return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
	}
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, commodity)
}

// GenerateJournal returns numTransactions balanced entries in ledger syntax.
// Every fifth entry carries a per-unit cost, every tenth a body comment and
// every seventh a code.
func GenerateJournal(numTransactions int) string {
	var sb strings.Builder

	for i := 0; i < numTransactions; i++ {
		year := 2020 + (i / 365)
		month := (i/30)%12 + 1
		day := i%28 + 1

		fromAcc := accounts[i%len(accounts)]
		toAcc := accounts[(i+1)%len(accounts)]
		commodity := commodities[i%len(commodities)]
		amt := formatAmount(commodity, (i%1000+1)*10)

		fmt.Fprintf(&sb, "%04d/%02d/%02d *", year, month, day)
		if i%7 == 0 {
			fmt.Fprintf(&sb, " (#%d)", i)
		}
		fmt.Fprintf(&sb, " Payee %d\n", i)

		if i%5 == 0 {
			fmt.Fprintf(&sb, "    %s  %s @ $1.10\n", fromAcc, amt)
		} else {
			fmt.Fprintf(&sb, "    %s  %s\n", fromAcc, amt)
		}
		fmt.Fprintf(&sb, "    %s\n", toAcc)

		if i%10 == 0 {
			fmt.Fprintf(&sb, "    ; tag:value%d\n", i)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// GenerateIncludeTree writes numFiles generated journals into tmpDir and a
// main.ledger that includes all of them, returning the main file's path.
func GenerateIncludeTree(tmpDir string, numFiles, txPerFile int) (string, error) {
	var mainContent strings.Builder

	for i := 0; i < numFiles; i++ {
		filename := fmt.Sprintf("file%d.ledger", i)
		fmt.Fprintf(&mainContent, "!include %s\n", filename)

		content := GenerateJournal(txPerFile)
		filePath := filepath.Join(tmpDir, filename)
		if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
			return "", err
		}
	}

	mainPath := filepath.Join(tmpDir, "main.ledger")
	if err := os.WriteFile(mainPath, []byte(mainContent.String()), 0644); err != nil {
		return "", err
	}

	return mainPath, nil
}
