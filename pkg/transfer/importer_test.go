package transfer

import (
	"testing"

	"github.com/monetapp/moneta/pkg/account"
	"github.com/monetapp/moneta/pkg/transaction"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var testAccounts = []account.Account{
	{ID: "acc-1", Name: "Checking", Type: account.TypeChecking},
	{ID: "acc-2", Name: "Savings", Type: account.TypeSavings},
}

func TestParseCSV_ValidRows(t *testing.T) {
	raw := "Date,Payee,Category,Account,Amount,Type\n" +
		"2026-03-15,Grocery Store,Groceries,Checking,42.50,expense\n" +
		"2026-03-01,Acme Corp,Salary,Savings,2000.00,income\n"

	result := ParseCSV(raw, testAccounts)

	assert.Empty(t, result.Errors)
	assert.Len(t, result.Preview, 2)

	first := result.Preview[0]
	assert.Equal(t, "Grocery Store", first.Payee)
	assert.Equal(t, "acc-1", first.AccountID)
	assert.Equal(t, transaction.TypeExpense, first.Type)
	assert.True(t, first.Amount.Equal(decimal.RequireFromString("42.50")))
	assert.Equal(t, "2026-03-15", first.Date.Format(transaction.DateFormat))

	second := result.Preview[1]
	assert.Equal(t, "acc-2", second.AccountID)
	assert.Equal(t, transaction.TypeIncome, second.Type)
}

func TestParseCSV_HeaderAliases(t *testing.T) {
	for _, header := range []string{"Description", "MERCHANT", "payee"} {
		raw := "Date," + header + ",Amount\n2026-01-10,Coffee,4.20\n"

		result := ParseCSV(raw, testAccounts)

		assert.Empty(t, result.Errors, "header %q should be accepted", header)
		assert.Len(t, result.Preview, 1)
		assert.Equal(t, "Coffee", result.Preview[0].Payee)
	}
}

func TestParseCSV_MissingRequiredColumns(t *testing.T) {
	result := ParseCSV("Payee,Amount\nCoffee,4.20\n", testAccounts)

	assert.Empty(t, result.Preview)
	assert.Contains(t, result.Errors, "Missing required column: Date")

	result = ParseCSV("Date,Category\n2026-01-10,Food\n", testAccounts)
	assert.Empty(t, result.Preview)
	assert.Len(t, result.Errors, 2)
}

func TestParseCSV_InvalidDateReportsRow(t *testing.T) {
	raw := "Date,Payee,Amount\n" +
		"2026-01-10,Coffee,4.20\n" +
		"13/45/2024,Lunch,12.00\n"

	result := ParseCSV(raw, testAccounts)

	assert.Len(t, result.Preview, 1)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Row 3")
	assert.Contains(t, result.Errors[0], "Invalid date format")
}

func TestParseCSV_RejectsImpossibleCalendarDate(t *testing.T) {
	result := ParseCSV("Date,Payee,Amount\n2024-13-45,Lunch,12.00\n", testAccounts)

	assert.Empty(t, result.Preview)
	assert.Contains(t, result.Errors[0], "Invalid date format")
}

func TestParseCSV_CurrencyAndNegativeAmounts(t *testing.T) {
	raw := "Date,Payee,Category,Amount\n" +
		"2026-02-01,Grocery Store,Groceries,-$50.00\n" +
		"2026-02-02,Big Purchase,Shopping,\"$1,234.56\"\n"

	result := ParseCSV(raw, testAccounts)

	assert.Empty(t, result.Errors)
	assert.Len(t, result.Preview, 2)

	groceries := result.Preview[0]
	assert.Equal(t, transaction.TypeExpense, groceries.Type)
	assert.True(t, groceries.Amount.Equal(decimal.RequireFromString("50.00")))

	shopping := result.Preview[1]
	assert.True(t, shopping.Amount.Equal(decimal.RequireFromString("1234.56")))
}

func TestParseCSV_TypeInference(t *testing.T) {
	tests := []struct {
		name     string
		row      string
		expected transaction.TxType
	}{
		{"explicit income wins over negative amount", "2026-01-01,Refund,Shopping,-10.00,income", transaction.TypeIncome},
		{"salary category implies income", "2026-01-01,Acme Corp,Salary,2000,", transaction.TypeIncome},
		{"side income category implies income", "2026-01-01,Client,Freelance Income,500,", transaction.TypeIncome},
		{"plain positive amount defaults to expense", "2026-01-01,Shop,Misc,25.00,", transaction.TypeExpense},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseCSV("Date,Payee,Category,Amount,Type\n"+tt.row+"\n", testAccounts)

			assert.Empty(t, result.Errors)
			assert.Len(t, result.Preview, 1)
			assert.Equal(t, tt.expected, result.Preview[0].Type)
		})
	}
}

func TestParseCSV_UnknownAccountFallsBackWithoutError(t *testing.T) {
	raw := "Date,Payee,Amount,Account\n2026-01-10,Coffee,4.20,Closed Account\n"

	result := ParseCSV(raw, testAccounts)

	assert.Empty(t, result.Errors)
	assert.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Closed Account")
	assert.Equal(t, "acc-1", result.Preview[0].AccountID)
}

func TestParseCSV_AccountMatchIsCaseInsensitive(t *testing.T) {
	raw := "Date,Payee,Amount,Account\n2026-01-10,Coffee,4.20,SAVINGS\n"

	result := ParseCSV(raw, testAccounts)

	assert.Empty(t, result.Warnings)
	assert.Equal(t, "acc-2", result.Preview[0].AccountID)
}

func TestParseCSV_QuotedFields(t *testing.T) {
	raw := "Date,Payee,Amount\n" +
		"2026-01-10,\"Smith, Jones \"\"and\"\" Co\",99.00\n"

	result := ParseCSV(raw, testAccounts)

	assert.Empty(t, result.Errors)
	assert.Equal(t, `Smith, Jones "and" Co`, result.Preview[0].Payee)
}

func TestParseCSV_RowValidation(t *testing.T) {
	raw := "Date,Payee,Amount\n" +
		"2026-01-10,,4.20\n" +
		"2026-01-11,Coffee,abc\n" +
		"2026-01-12,Coffee,0\n"

	result := ParseCSV(raw, testAccounts)

	assert.Empty(t, result.Preview)
	assert.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "Payee is required")
	assert.Contains(t, result.Errors[1], "Invalid amount")
	assert.Contains(t, result.Errors[2], "greater than zero")
}

func TestParseCSV_SkipsBlankLinesAndDefaultsCategory(t *testing.T) {
	raw := "Date,Payee,Amount\r\n\r\n2026-01-10,Coffee,4.20\r\n\r\n"

	result := ParseCSV(raw, testAccounts)

	assert.Empty(t, result.Errors)
	assert.Len(t, result.Preview, 1)
	assert.Equal(t, "Uncategorized", result.Preview[0].Category)
}

func TestParseCSV_EmptyFile(t *testing.T) {
	result := ParseCSV("   \n\n", testAccounts)

	assert.Empty(t, result.Preview)
	assert.Contains(t, result.Errors, "File is empty")
}
