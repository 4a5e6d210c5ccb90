package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/monetapp/moneta/internal/event_bus"
	"github.com/monetapp/moneta/internal/utils"
	"github.com/monetapp/moneta/pkg/transaction"
	"github.com/monetapp/moneta/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrCategoryTaken = errors.New("a budget for this category already exists")

// MonthlySpending exposes the expense sum for one category in the month
// starting at monthStart.
type MonthlySpending interface {
	SumByCategoryAndMonth(ctx context.Context, ownerId string, category string, txType transaction.TxType, monthStart time.Time) (decimal.Decimal, error)
}

type Service interface {
	Create(ctx context.Context, budget Budget) (Budget, error)
	GetAll(ctx context.Context) ([]Budget, error)
	GetProgress(ctx context.Context) ([]Progress, error)
	Update(ctx context.Context, budget Budget) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type ServiceImpl struct {
	repo     Repo
	spending MonthlySpending
	bus      *event_bus.EventBus
	clock    utils.Clock
}

func NewBudgetService(repo Repo, spending MonthlySpending, bus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, spending: spending, bus: bus, clock: clock}
}

func (s *ServiceImpl) Create(ctx context.Context, budget Budget) (Budget, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return Budget{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if budget.Category == "" {
		return Budget{}, fmt.Errorf("category is required")
	}
	if !budget.Amount.IsPositive() {
		return Budget{}, fmt.Errorf("budget amount must be positive")
	}

	if _, err := s.repo.GetByCategory(ctx, ownerId, budget.Category); err == nil {
		return Budget{}, ErrCategoryTaken
	} else if !errors.Is(err, ErrBudgetNotFound) {
		return Budget{}, err
	}

	budget.ID = uuid.NewString()
	budget.CreatedAt = time.Now().UTC()
	if err := s.repo.Store(ctx, ownerId, budget); err != nil {
		return Budget{}, err
	}

	s.notifyChanged(ctx, ownerId)
	return budget, nil
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Budget, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, ownerId)
}

// GetProgress computes, for every budget, how much of its limit is spent in
// the current calendar month.
func (s *ServiceImpl) GetProgress(ctx context.Context) ([]Progress, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	budgets, err := s.repo.GetAll(ctx, ownerId)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	progress := make([]Progress, 0, len(budgets))
	for _, budget := range budgets {
		spent, err := s.spending.SumByCategoryAndMonth(ctx, ownerId, budget.Category, transaction.TypeExpense, monthStart)
		if err != nil {
			return nil, err
		}
		progress = append(progress, newProgress(budget, spent))
	}
	return progress, nil
}

func newProgress(budget Budget, spent decimal.Decimal) Progress {
	percentage := 0
	if budget.Amount.IsPositive() {
		percentage = int(spent.Div(budget.Amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
	}
	return Progress{
		Budget:     budget,
		Spent:      spent,
		Remaining:  budget.Amount.Sub(spent),
		IsOver:     spent.GreaterThan(budget.Amount),
		Percentage: percentage,
	}
}

func (s *ServiceImpl) Update(ctx context.Context, budget Budget) (bool, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	if !budget.Amount.IsPositive() {
		return false, fmt.Errorf("budget amount must be positive")
	}

	updated, err := s.repo.Update(ctx, ownerId, budget)
	if err != nil {
		return false, err
	}
	if !updated {
		log.Warnf("budget not updated, probably because it does not exist (%s) or the user (%s) is not the owner", budget.ID, ownerId)
		return false, nil
	}
	s.notifyChanged(ctx, ownerId)
	return true, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) (bool, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	deleted, err := s.repo.Delete(ctx, ownerId, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.notifyChanged(ctx, ownerId)
	}
	return deleted, nil
}

func (s *ServiceImpl) notifyChanged(ctx context.Context, ownerId string) {
	event := event_bus.NewEvent(ctx, event_bus.BudgetsChanged, event_bus.CollectionChanged{
		OwnerID:    ownerId,
		Collection: "budgets",
	})
	if err := s.bus.Publish(event); err != nil {
		log.Warnf("failed to publish budgets change event: %v", err)
	}
}
