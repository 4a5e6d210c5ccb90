package transfer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/monetapp/moneta/pkg/account"
	"github.com/monetapp/moneta/pkg/transaction"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// ImportResult carries the validated preview rows and the user-facing errors.
// Account-not-found warnings are collected during parsing but intentionally
// left out of Errors: unknown account names fall back to the default account
// and should not block the import confirmation.
type ImportResult struct {
	Preview  []transaction.Transaction
	Errors   []string
	Warnings []string
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// header aliases, all lowercase
var payeeAliases = map[string]bool{"payee": true, "description": true, "merchant": true}

type columnMap struct {
	date     int
	payee    int
	amount   int
	category int
	account  int
	txType   int
}

// ParseCSV converts raw CSV text into transaction inputs. The first non-empty
// line is the header; matching is case-insensitive and alias-aware. Missing
// required columns abort the import before any row is parsed.
func ParseCSV(raw string, accounts []account.Account) ImportResult {
	result := ImportResult{Preview: []transaction.Transaction{}, Errors: []string{}}

	lines := make([]string, 0)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	columns, headerErrors := mapHeader(splitCSVLine(lines[0]))
	if len(headerErrors) > 0 {
		result.Errors = headerErrors
		return result
	}

	var defaultAccountId string
	if len(accounts) > 0 {
		defaultAccountId = accounts[0].ID
	}

	for i, line := range lines[1:] {
		rowNum := i + 2
		fields := splitCSVLine(line)

		row, rowErr, warning := parseRow(rowNum, fields, columns, accounts, defaultAccountId)
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		if rowErr != "" {
			result.Errors = append(result.Errors, rowErr)
			continue
		}
		result.Preview = append(result.Preview, row)
	}

	if len(result.Warnings) > 0 {
		log.Debugf("CSV import: %d account warnings suppressed from error list", len(result.Warnings))
	}
	return result
}

func mapHeader(headerFields []string) (columnMap, []string) {
	columns := columnMap{date: -1, payee: -1, amount: -1, category: -1, account: -1, txType: -1}
	for i, field := range headerFields {
		name := strings.ToLower(strings.TrimSpace(field))
		switch {
		case name == "date":
			columns.date = i
		case payeeAliases[name]:
			columns.payee = i
		case name == "amount":
			columns.amount = i
		case name == "category":
			columns.category = i
		case name == "account":
			columns.account = i
		case name == "type":
			columns.txType = i
		}
	}

	var errors []string
	if columns.date == -1 {
		errors = append(errors, "Missing required column: Date")
	}
	if columns.payee == -1 {
		errors = append(errors, "Missing required column: Payee (or Description/Merchant)")
	}
	if columns.amount == -1 {
		errors = append(errors, "Missing required column: Amount")
	}
	return columns, errors
}

func parseRow(rowNum int, fields []string, columns columnMap, accounts []account.Account, defaultAccountId string) (transaction.Transaction, string, string) {
	field := func(idx int) string {
		if idx < 0 || idx >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[idx])
	}

	dateStr := field(columns.date)
	if !dateRe.MatchString(dateStr) {
		return transaction.Transaction{}, fmt.Sprintf("Row %d: Invalid date format %q (expected YYYY-MM-DD)", rowNum, dateStr), ""
	}
	date, err := time.Parse(transaction.DateFormat, dateStr)
	if err != nil {
		return transaction.Transaction{}, fmt.Sprintf("Row %d: Invalid date format %q (expected YYYY-MM-DD)", rowNum, dateStr), ""
	}

	payee := field(columns.payee)
	if payee == "" {
		return transaction.Transaction{}, fmt.Sprintf("Row %d: Payee is required", rowNum), ""
	}

	rawAmount := field(columns.amount)
	cleaned := strings.ReplaceAll(strings.ReplaceAll(rawAmount, "$", ""), ",", "")
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return transaction.Transaction{}, fmt.Sprintf("Row %d: Invalid amount %q", rowNum, rawAmount), ""
	}
	negative := amount.IsNegative()
	amount = amount.Abs()
	if !amount.IsPositive() {
		return transaction.Transaction{}, fmt.Sprintf("Row %d: Amount must be greater than zero", rowNum), ""
	}

	category := field(columns.category)
	if category == "" {
		category = "Uncategorized"
	}

	txType := inferType(field(columns.txType), negative, category)

	accountId := defaultAccountId
	warning := ""
	if name := field(columns.account); name != "" {
		matched := false
		for _, acc := range accounts {
			if strings.EqualFold(acc.Name, name) {
				accountId = acc.ID
				matched = true
				break
			}
		}
		if !matched {
			warning = fmt.Sprintf("Row %d: Account %q not found, using default account", rowNum, name)
		}
	}

	return transaction.Transaction{
		AccountID: accountId,
		Payee:     payee,
		Category:  category,
		Amount:    amount,
		Type:      txType,
		Date:      date,
	}, "", warning
}

// inferType resolves the transaction type. An explicit "income"/"expense"
// value wins; otherwise a negative raw amount implies expense, then a
// salary/income category implies income, and everything else is an expense.
func inferType(explicit string, negativeAmount bool, category string) transaction.TxType {
	switch strings.ToLower(explicit) {
	case "income":
		return transaction.TypeIncome
	case "expense":
		return transaction.TypeExpense
	}
	if negativeAmount {
		return transaction.TypeExpense
	}
	lowerCategory := strings.ToLower(category)
	if strings.Contains(lowerCategory, "salary") || strings.Contains(lowerCategory, "income") {
		return transaction.TypeIncome
	}
	return transaction.TypeExpense
}

// splitCSVLine tokenizes one CSV line. A double quote toggles quoted state,
// a doubled quote inside a quoted field is a literal quote, and unquoted
// commas separate fields.
func splitCSVLine(line string) []string {
	fields := make([]string, 0)
	var current strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(c)
		}
	}
	fields = append(fields, current.String())
	return fields
}
