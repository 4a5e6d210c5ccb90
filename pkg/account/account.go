package account

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	TypeChecking   AccountType = "checking"
	TypeSavings    AccountType = "savings"
	TypeCreditCard AccountType = "credit_card"
	TypeCash       AccountType = "cash"
	TypeInvestment AccountType = "investment"
)

func (t AccountType) IsValid() bool {
	switch t {
	case TypeChecking, TypeSavings, TypeCreditCard, TypeCash, TypeInvestment:
		return true
	}
	return false
}

type Account struct {
	ID              string
	Name            string
	Type            AccountType
	StartingBalance decimal.Decimal
	Color           string
	CreatedAt       time.Time

	// Balance is derived on read: starting balance plus the signed sum of the
	// account's transactions. It is never written to the database.
	Balance decimal.Decimal
}
