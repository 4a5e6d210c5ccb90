package transfer

import (
	"testing"
	"time"

	"github.com/monetapp/moneta/pkg/transaction"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(value string) time.Time {
	parsed, err := time.Parse(transaction.DateFormat, value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestExportCSV(t *testing.T) {
	transactions := []transaction.Transaction{
		{
			ID:        "tx-1",
			AccountID: "acc-1",
			Payee:     "Grocery Store",
			Category:  "Groceries",
			Amount:    decimal.RequireFromString("42.5"),
			Type:      transaction.TypeExpense,
			Date:      date("2026-03-15"),
		},
		{
			ID:        "tx-2",
			AccountID: "acc-2",
			Payee:     "Smith, Jones Co",
			Category:  "Services",
			Amount:    decimal.RequireFromString("99"),
			Type:      transaction.TypeExpense,
			Date:      date("2026-03-16"),
		},
	}

	content, err := ExportCSV(transactions, testAccounts)

	require.NoError(t, err)
	assert.Contains(t, content, "Date,Payee,Category,Account,Amount,Type\n")
	assert.Contains(t, content, "2026-03-15,Grocery Store,Groceries,Checking,42.50,expense\n")
	// amounts are always rendered with two decimals, commas force quoting
	assert.Contains(t, content, `"Smith, Jones Co"`)
	assert.Contains(t, content, "99.00")
}

func TestExportCSV_DeletedAccountKeepsEmptyName(t *testing.T) {
	transactions := []transaction.Transaction{
		{
			ID:        "tx-1",
			AccountID: "gone",
			Payee:     "Coffee",
			Category:  "Food",
			Amount:    decimal.RequireFromString("4.20"),
			Type:      transaction.TypeExpense,
			Date:      date("2026-01-10"),
		},
	}

	content, err := ExportCSV(transactions, testAccounts)

	require.NoError(t, err)
	assert.Contains(t, content, "2026-01-10,Coffee,Food,,4.20,expense\n")
}

func TestExportImportRoundTrip(t *testing.T) {
	original := []transaction.Transaction{
		{
			ID:        "tx-1",
			AccountID: "acc-1",
			Payee:     "Grocery Store",
			Category:  "Groceries",
			Amount:    decimal.RequireFromString("42.50"),
			Type:      transaction.TypeExpense,
			Date:      date("2026-03-15"),
		},
		{
			ID:        "tx-2",
			AccountID: "acc-2",
			Payee:     "Acme Corp",
			Category:  "Salary",
			Amount:    decimal.RequireFromString("2000.00"),
			Type:      transaction.TypeIncome,
			Date:      date("2026-03-01"),
		},
	}

	content, err := ExportCSV(original, testAccounts)
	require.NoError(t, err)

	result := ParseCSV(content, testAccounts)

	require.Empty(t, result.Errors)
	require.Len(t, result.Preview, len(original))
	for i, tx := range original {
		imported := result.Preview[i]
		assert.Equal(t, tx.AccountID, imported.AccountID)
		assert.Equal(t, tx.Payee, imported.Payee)
		assert.Equal(t, tx.Category, imported.Category)
		assert.True(t, tx.Amount.Equal(imported.Amount))
		assert.Equal(t, tx.Type, imported.Type)
		assert.True(t, tx.Date.Equal(imported.Date))
	}
}

func TestNewBackup(t *testing.T) {
	now := date("2026-04-01")

	backup := NewBackup(now, BackupData{})

	assert.Equal(t, "1.0", backup.Version)
	assert.Equal(t, now, backup.ExportDate)
}
