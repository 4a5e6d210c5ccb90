package recurring

import (
	"context"
	"sort"
	"time"

	"github.com/monetapp/moneta/pkg/transaction"
)

// StubRecurringRepo keeps templates in memory and mirrors the due-date guard
// of the real repository, including the occurrence insert into a companion
// transaction repo.
type StubRecurringRepo struct {
	data    map[string]RecurringTransaction
	txRepo  *transaction.StubTransactionRepo
	ownerId string
}

func NewStubRecurringRepo(txRepo *transaction.StubTransactionRepo) *StubRecurringRepo {
	return &StubRecurringRepo{data: map[string]RecurringTransaction{}, txRepo: txRepo}
}

func (s *StubRecurringRepo) Store(ctx context.Context, ownerId string, rec RecurringTransaction) error {
	s.data[rec.ID] = rec
	return nil
}

func (s *StubRecurringRepo) Get(ctx context.Context, ownerId string, id string) (RecurringTransaction, error) {
	rec, ok := s.data[id]
	if !ok {
		return RecurringTransaction{}, ErrRecurringNotFound
	}
	return rec, nil
}

func (s *StubRecurringRepo) GetAll(ctx context.Context, ownerId string) ([]RecurringTransaction, error) {
	recs := make([]RecurringTransaction, 0, len(s.data))
	for _, rec := range s.data {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].NextDueDate.Before(recs[j].NextDueDate)
	})
	return recs, nil
}

func (s *StubRecurringRepo) Update(ctx context.Context, ownerId string, rec RecurringTransaction) (bool, error) {
	existing, ok := s.data[rec.ID]
	if !ok {
		return false, nil
	}
	existing.AccountID = rec.AccountID
	existing.Payee = rec.Payee
	existing.Category = rec.Category
	existing.Amount = rec.Amount
	existing.Type = rec.Type
	existing.Frequency = rec.Frequency
	s.data[rec.ID] = existing
	return true, nil
}

func (s *StubRecurringRepo) Delete(ctx context.Context, ownerId string, id string) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubRecurringRepo) SetActive(ctx context.Context, ownerId string, id string, active bool) (bool, error) {
	rec, ok := s.data[id]
	if !ok {
		return false, nil
	}
	rec.Active = active
	s.data[id] = rec
	return true, nil
}

func (s *StubRecurringRepo) AdvanceDueDate(ctx context.Context, ownerId string, id string, expectedDue, nextDue time.Time) error {
	rec, ok := s.data[id]
	if !ok || !rec.NextDueDate.Equal(expectedDue) {
		return ErrDueDateMoved
	}
	rec.NextDueDate = nextDue
	s.data[id] = rec
	return nil
}

func (s *StubRecurringRepo) GenerateOccurrence(ctx context.Context, ownerId string, rec RecurringTransaction, occurrence transaction.Transaction, nextDue time.Time) error {
	stored, ok := s.data[rec.ID]
	if !ok || !stored.NextDueDate.Equal(rec.NextDueDate) {
		return ErrDueDateMoved
	}
	if err := s.txRepo.Store(ctx, ownerId, occurrence); err != nil {
		return err
	}
	lastGenerated := stored.NextDueDate
	stored.LastGeneratedDate = &lastGenerated
	stored.NextDueDate = nextDue
	s.data[rec.ID] = stored
	return nil
}

func (s *StubRecurringRepo) Cleanup() {
	s.data = map[string]RecurringTransaction{}
}
