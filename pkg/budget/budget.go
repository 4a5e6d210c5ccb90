package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a monthly spending limit for one category. Category is unique per
// owner.
type Budget struct {
	ID        string
	Category  string
	Amount    decimal.Decimal
	Color     string
	CreatedAt time.Time
}

// Progress is the derived state of a budget for the current calendar month.
// It is recomputed on read and never stored.
type Progress struct {
	Budget     Budget
	Spent      decimal.Decimal
	Remaining  decimal.Decimal
	IsOver     bool
	Percentage int
}
