package transfer

import (
	"bytes"
	"encoding/csv"
	"time"

	"github.com/monetapp/moneta/pkg/account"
	"github.com/monetapp/moneta/pkg/budget"
	"github.com/monetapp/moneta/pkg/recurring"
	"github.com/monetapp/moneta/pkg/transaction"
)

var exportHeader = []string{"Date", "Payee", "Category", "Account", "Amount", "Type"}

// ExportCSV renders transactions as CSV text. Account IDs are resolved to
// names; a transaction pointing at a deleted account keeps an empty name.
func ExportCSV(transactions []transaction.Transaction, accounts []account.Account) (string, error) {
	namesById := make(map[string]string, len(accounts))
	for _, acc := range accounts {
		namesById[acc.ID] = acc.Name
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(exportHeader); err != nil {
		return "", err
	}
	for _, tx := range transactions {
		record := []string{
			tx.Date.Format(transaction.DateFormat),
			tx.Payee,
			tx.Category,
			namesById[tx.AccountID],
			tx.Amount.StringFixed(2),
			string(tx.Type),
		}
		if err := writer.Write(record); err != nil {
			return "", err
		}
	}
	writer.Flush()
	return buf.String(), writer.Error()
}

// Backup is the full-data JSON export envelope.
type Backup struct {
	ExportDate time.Time  `json:"exportDate"`
	Version    string     `json:"version"`
	Data       BackupData `json:"data"`
}

type BackupData struct {
	Accounts              []account.Account                `json:"accounts"`
	Transactions          []transaction.Transaction        `json:"transactions"`
	Budgets               []budget.Budget                  `json:"budgets"`
	RecurringTransactions []recurring.RecurringTransaction `json:"recurringTransactions"`
}

const backupVersion = "1.0"

func NewBackup(now time.Time, data BackupData) Backup {
	return Backup{ExportDate: now, Version: backupVersion, Data: data}
}
