package budget

import (
	"context"
	"sort"
)

type StubBudgetRepo struct {
	data map[string]Budget
}

func NewStubBudgetRepo() *StubBudgetRepo {
	return &StubBudgetRepo{data: map[string]Budget{}}
}

func (s *StubBudgetRepo) Store(ctx context.Context, ownerId string, budget Budget) error {
	s.data[budget.ID] = budget
	return nil
}

func (s *StubBudgetRepo) Get(ctx context.Context, ownerId string, id string) (Budget, error) {
	b, ok := s.data[id]
	if !ok {
		return Budget{}, ErrBudgetNotFound
	}
	return b, nil
}

func (s *StubBudgetRepo) GetByCategory(ctx context.Context, ownerId string, category string) (Budget, error) {
	for _, b := range s.data {
		if b.Category == category {
			return b, nil
		}
	}
	return Budget{}, ErrBudgetNotFound
}

func (s *StubBudgetRepo) GetAll(ctx context.Context, ownerId string) ([]Budget, error) {
	budgets := make([]Budget, 0, len(s.data))
	for _, b := range s.data {
		budgets = append(budgets, b)
	}
	sort.Slice(budgets, func(i, j int) bool {
		return budgets[i].Category < budgets[j].Category
	})
	return budgets, nil
}

func (s *StubBudgetRepo) Update(ctx context.Context, ownerId string, budget Budget) (bool, error) {
	if _, ok := s.data[budget.ID]; !ok {
		return false, nil
	}
	s.data[budget.ID] = budget
	return true, nil
}

func (s *StubBudgetRepo) Delete(ctx context.Context, ownerId string, id string) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubBudgetRepo) Cleanup() {
	s.data = map[string]Budget{}
}
