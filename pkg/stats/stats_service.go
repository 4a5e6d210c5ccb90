package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/monetapp/moneta/internal/utils"
	"github.com/monetapp/moneta/pkg/account"
	"github.com/monetapp/moneta/pkg/budget"
	"github.com/monetapp/moneta/pkg/transaction"
	"github.com/monetapp/moneta/pkg/user"
	"github.com/shopspring/decimal"
)

// MonthlyTotals is the slice of the transaction repo used for the dashboard.
type MonthlyTotals interface {
	SumByTypeAndMonth(ctx context.Context, ownerId string, txType transaction.TxType, monthStart time.Time) (decimal.Decimal, error)
}

// Summary is the dashboard snapshot: net worth across all accounts, the
// running month's totals and every budget's progress.
type Summary struct {
	NetWorth     decimal.Decimal
	MonthIncome  decimal.Decimal
	MonthExpense decimal.Decimal
	Budgets      []budget.Progress
}

type Service interface {
	GetSummary(ctx context.Context) (Summary, error)
}

type ServiceImpl struct {
	accounts account.Service
	budgets  budget.Service
	totals   MonthlyTotals
	clock    utils.Clock
}

func NewStatsService(accounts account.Service, budgets budget.Service, totals MonthlyTotals, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{accounts: accounts, budgets: budgets, totals: totals, clock: clock}
}

func (s *ServiceImpl) GetSummary(ctx context.Context) (Summary, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to get current user: %w", err)
	}

	accounts, err := s.accounts.GetAll(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load accounts: %w", err)
	}
	netWorth := decimal.Zero
	for _, acc := range accounts {
		netWorth = netWorth.Add(acc.Balance)
	}

	now := s.clock.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	income, err := s.totals.SumByTypeAndMonth(ctx, ownerId, transaction.TypeIncome, monthStart)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to sum monthly income: %w", err)
	}
	expense, err := s.totals.SumByTypeAndMonth(ctx, ownerId, transaction.TypeExpense, monthStart)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to sum monthly expenses: %w", err)
	}

	progress, err := s.budgets.GetProgress(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load budget progress: %w", err)
	}

	return Summary{
		NetWorth:     netWorth,
		MonthIncome:  income,
		MonthExpense: expense,
		Budgets:      progress,
	}, nil
}
