package recurring

import (
	"fmt"
	"time"

	"github.com/monetapp/moneta/pkg/transaction"
	"github.com/shopspring/decimal"
)

type Frequency string

const (
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly"
	Monthly  Frequency = "monthly"
	Yearly   Frequency = "yearly"
)

func (f Frequency) IsValid() bool {
	switch f {
	case Weekly, Biweekly, Monthly, Yearly:
		return true
	}
	return false
}

// RecurringTransaction is a template describing a transaction that repeats on
// a fixed schedule. NextDueDate only ever moves forward: paying or skipping an
// occurrence advances it by one frequency step.
type RecurringTransaction struct {
	ID                string
	AccountID         string
	Payee             string
	Category          string
	Amount            decimal.Decimal
	Type              transaction.TxType
	Frequency         Frequency
	StartDate         time.Time
	NextDueDate       time.Time
	LastGeneratedDate *time.Time
	Active            bool
	CreatedAt         time.Time
}

// NextDueDate returns the due date one frequency step after current.
// Month and year steps use time.AddDate, so end-of-month overflow follows Go's
// normalization (Jan 31 + 1 month lands in early March).
func NextDueDate(current time.Time, frequency Frequency) (time.Time, error) {
	switch frequency {
	case Weekly:
		return current.AddDate(0, 0, 7), nil
	case Biweekly:
		return current.AddDate(0, 0, 14), nil
	case Monthly:
		return current.AddDate(0, 1, 0), nil
	case Yearly:
		return current.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unknown frequency: %s", frequency)
	}
}
