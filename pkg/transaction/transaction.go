package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

type TxType string

const (
	TypeIncome  TxType = "income"
	TypeExpense TxType = "expense"
)

func (t TxType) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

// DateFormat is the calendar-day format used everywhere a transaction date
// crosses a boundary (API, CSV, database).
const DateFormat = "2006-01-02"

// Transaction is a single booked income or expense. Amount is always positive;
// Type determines the sign when aggregating into balances.
type Transaction struct {
	ID        string
	AccountID string
	Payee     string
	Category  string
	Amount    decimal.Decimal
	Type      TxType
	Date      time.Time
	Notes     string
	CreatedAt time.Time
}

// Filter narrows down listing results. Zero values mean "no constraint".
type Filter struct {
	AccountID string
	Category  string
	Type      TxType
	From      time.Time
	To        time.Time
}
