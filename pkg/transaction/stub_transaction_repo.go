package transaction

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type StubTransactionRepo struct {
	data map[string]Transaction
}

func NewStubTransactionRepo() *StubTransactionRepo {
	return &StubTransactionRepo{data: map[string]Transaction{}}
}

func (s *StubTransactionRepo) Store(ctx context.Context, ownerId string, tx Transaction) error {
	s.data[tx.ID] = tx
	return nil
}

func (s *StubTransactionRepo) Get(ctx context.Context, ownerId string, id string) (Transaction, error) {
	tx, ok := s.data[id]
	if !ok {
		return Transaction{}, ErrTransactionNotFound
	}
	return tx, nil
}

func (s *StubTransactionRepo) GetAll(ctx context.Context, ownerId string, filter Filter) ([]Transaction, error) {
	transactions := make([]Transaction, 0, len(s.data))
	for _, tx := range s.data {
		if filter.AccountID != "" && tx.AccountID != filter.AccountID {
			continue
		}
		if filter.Category != "" && tx.Category != filter.Category {
			continue
		}
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		if !filter.From.IsZero() && tx.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && tx.Date.After(filter.To) {
			continue
		}
		transactions = append(transactions, tx)
	}
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})
	return transactions, nil
}

func (s *StubTransactionRepo) Update(ctx context.Context, ownerId string, tx Transaction) (bool, error) {
	if _, ok := s.data[tx.ID]; !ok {
		return false, nil
	}
	s.data[tx.ID] = tx
	return true, nil
}

func (s *StubTransactionRepo) Delete(ctx context.Context, ownerId string, id string) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubTransactionRepo) SignedSumByAccount(ctx context.Context, ownerId string, accountId string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, tx := range s.data {
		if tx.AccountID != accountId {
			continue
		}
		if tx.Type == TypeIncome {
			sum = sum.Add(tx.Amount)
		} else {
			sum = sum.Sub(tx.Amount)
		}
	}
	return sum, nil
}

func (s *StubTransactionRepo) SumByCategoryAndMonth(ctx context.Context, ownerId string, category string, txType TxType, monthStart time.Time) (decimal.Decimal, error) {
	monthEnd := monthStart.AddDate(0, 1, 0)
	sum := decimal.Zero
	for _, tx := range s.data {
		if tx.Category != category || tx.Type != txType {
			continue
		}
		if tx.Date.Before(monthStart) || !tx.Date.Before(monthEnd) {
			continue
		}
		sum = sum.Add(tx.Amount)
	}
	return sum, nil
}

func (s *StubTransactionRepo) SumByTypeAndMonth(ctx context.Context, ownerId string, txType TxType, monthStart time.Time) (decimal.Decimal, error) {
	monthEnd := monthStart.AddDate(0, 1, 0)
	sum := decimal.Zero
	for _, tx := range s.data {
		if tx.Type != txType {
			continue
		}
		if tx.Date.Before(monthStart) || !tx.Date.Before(monthEnd) {
			continue
		}
		sum = sum.Add(tx.Amount)
	}
	return sum, nil
}

func (s *StubTransactionRepo) Cleanup() {
	s.data = map[string]Transaction{}
}
