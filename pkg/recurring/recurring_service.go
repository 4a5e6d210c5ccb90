package recurring

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
	log "github.com/sirupsen/logrus"
)

// upcomingWindowDays is the look-ahead window for the upcoming list,
// inclusive of today.
const upcomingWindowDays = 7

type Service interface {
	Create(ctx context.Context, rec RecurringTransaction) (RecurringTransaction, error)
	GetAll(ctx context.Context) ([]RecurringTransaction, error)
	Update(ctx context.Context, rec RecurringTransaction) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	MarkAsPaid(ctx context.Context, id string) (transaction.Transaction, error)
	SkipNextOccurrence(ctx context.Context, id string) (RecurringTransaction, error)
	Toggle(ctx context.Context, id string) (RecurringTransaction, error)
	GenerateDueTransactions(ctx context.Context) ([]transaction.Transaction, error)
	GetUpcoming(ctx context.Context) ([]RecurringTransaction, error)
}

type ServiceImpl struct {
	repo  Repo
	bus   *event_bus.EventBus
	clock utils.Clock
}

func NewRecurringService(repo Repo, bus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus, clock: clock}
}

func (s *ServiceImpl) Create(ctx context.Context, rec RecurringTransaction) (RecurringTransaction, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return RecurringTransaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if rec.Payee == "" {
		return RecurringTransaction{}, fmt.Errorf("payee is required")
	}
	if !rec.Amount.IsPositive() {
		return RecurringTransaction{}, fmt.Errorf("amount must be positive")
	}
	if !rec.Type.IsValid() {
		return RecurringTransaction{}, fmt.Errorf("invalid transaction type: %s", rec.Type)
	}
	if !rec.Frequency.IsValid() {
		return RecurringTransaction{}, fmt.Errorf("invalid frequency: %s", rec.Frequency)
	}
	if rec.StartDate.IsZero() {
		return RecurringTransaction{}, fmt.Errorf("start date is required")
	}

	rec.ID = uuid.NewString()
	rec.NextDueDate = rec.StartDate
	rec.LastGeneratedDate = nil
	rec.Active = true
	rec.CreatedAt = time.Now().UTC()
	if rec.Category == "" {
		rec.Category = "Uncategorized"
	}

	if err := s.repo.Store(ctx, ownerId, rec); err != nil {
		return RecurringTransaction{}, err
	}
	s.notifyRecurringChanged(ctx, ownerId)
	return rec, nil
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]RecurringTransaction, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, ownerId)
}

func (s *ServiceImpl) Update(ctx context.Context, rec RecurringTransaction) (bool, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	if !rec.Amount.IsPositive() {
		return false, fmt.Errorf("amount must be positive")
	}
	if !rec.Frequency.IsValid() {
		return false, fmt.Errorf("invalid frequency: %s", rec.Frequency)
	}

	updated, err := s.repo.Update(ctx, ownerId, rec)
	if err != nil {
		return false, err
	}
	if !updated {
		log.Warnf("recurring transaction not updated, probably because it does not exist (%s) or the user (%s) is not the owner", rec.ID, ownerId)
		return false, nil
	}
	s.notifyRecurringChanged(ctx, ownerId)
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
		s.notifyRecurringChanged(ctx, ownerId)
	}
	return deleted, nil
}

// MarkAsPaid creates one occurrence transaction dated at the template's
// current due date and advances the schedule by one frequency step. Both
// writes happen in one database transaction, so a concurrent call cannot
// generate a duplicate occurrence.
func (s *ServiceImpl) MarkAsPaid(ctx context.Context, id string) (transaction.Transaction, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return transaction.Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	rec, err := s.repo.Get(ctx, ownerId, id)
	if err != nil {
		return transaction.Transaction{}, err
	}
	if !rec.Active {
		return transaction.Transaction{}, fmt.Errorf("recurring transaction is paused")
	}

	occurrence, err := s.generateOccurrence(ctx, ownerId, rec)
	if err != nil {
		return transaction.Transaction{}, err
	}

	s.notifyRecurringChanged(ctx, ownerId)
	s.notifyTransactionsChanged(ctx, ownerId)
	return occurrence, nil
}

// SkipNextOccurrence advances the due date by one frequency step without
// creating a transaction.
func (s *ServiceImpl) SkipNextOccurrence(ctx context.Context, id string) (RecurringTransaction, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return RecurringTransaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	rec, err := s.repo.Get(ctx, ownerId, id)
	if err != nil {
		return RecurringTransaction{}, err
	}

	nextDue, err := NextDueDate(rec.NextDueDate, rec.Frequency)
	if err != nil {
		return RecurringTransaction{}, err
	}
	if err := s.repo.AdvanceDueDate(ctx, ownerId, id, rec.NextDueDate, nextDue); err != nil {
		return RecurringTransaction{}, err
	}
	rec.NextDueDate = nextDue

	s.notifyRecurringChanged(ctx, ownerId)
	return rec, nil
}

// Toggle flips the active flag. Paused templates are excluded from the
// due-check and the upcoming list but keep their schedule.
func (s *ServiceImpl) Toggle(ctx context.Context, id string) (RecurringTransaction, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return RecurringTransaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	rec, err := s.repo.Get(ctx, ownerId, id)
	if err != nil {
		return RecurringTransaction{}, err
	}

	ok, err := s.repo.SetActive(ctx, ownerId, id, !rec.Active)
	if err != nil {
		return RecurringTransaction{}, err
	}
	if !ok {
		return RecurringTransaction{}, ErrRecurringNotFound
	}
	rec.Active = !rec.Active

	s.notifyRecurringChanged(ctx, ownerId)
	return rec, nil
}

// GenerateDueTransactions generates one occurrence for every active template
// whose due date is today or earlier. A template that has been due for several
// periods still yields a single occurrence per call; there is no backfill.
func (s *ServiceImpl) GenerateDueTransactions(ctx context.Context) ([]transaction.Transaction, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	recs, err := s.repo.GetAll(ctx, ownerId)
	if err != nil {
		return nil, err
	}

	today := dateOnly(s.clock.Now())
	generated := make([]transaction.Transaction, 0)
	for _, rec := range recs {
		if !rec.Active || dateOnly(rec.NextDueDate).After(today) {
			continue
		}
		occurrence, err := s.generateOccurrence(ctx, ownerId, rec)
		if errors.Is(err, ErrDueDateMoved) {
			log.Debugf("recurring %s already generated elsewhere, skipping", rec.ID)
			continue
		}
		if err != nil {
			return generated, err
		}
		generated = append(generated, occurrence)
	}

	if len(generated) > 0 {
		s.notifyRecurringChanged(ctx, ownerId)
		s.notifyTransactionsChanged(ctx, ownerId)
	}
	return generated, nil
}

// GetUpcoming returns active templates due within the next 7 days, today
// inclusive.
func (s *ServiceImpl) GetUpcoming(ctx context.Context) ([]RecurringTransaction, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	recs, err := s.repo.GetAll(ctx, ownerId)
	if err != nil {
		return nil, err
	}

	today := dateOnly(s.clock.Now())
	windowEnd := today.AddDate(0, 0, upcomingWindowDays)

	upcoming := make([]RecurringTransaction, 0)
	for _, rec := range recs {
		due := dateOnly(rec.NextDueDate)
		if rec.Active && !due.Before(today) && !due.After(windowEnd) {
			upcoming = append(upcoming, rec)
		}
	}
	return upcoming, nil
}

func (s *ServiceImpl) generateOccurrence(ctx context.Context, ownerId string, rec RecurringTransaction) (transaction.Transaction, error) {
	nextDue, err := NextDueDate(rec.NextDueDate, rec.Frequency)
	if err != nil {
		return transaction.Transaction{}, err
	}

	occurrence := transaction.Transaction{
		ID:        uuid.NewString(),
		AccountID: rec.AccountID,
		Payee:     rec.Payee,
		Category:  rec.Category,
		Amount:    rec.Amount,
		Type:      rec.Type,
		Date:      rec.NextDueDate,
		Notes:     fmt.Sprintf("Auto-generated from recurring: %s", rec.Payee),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.GenerateOccurrence(ctx, ownerId, rec, occurrence, nextDue); err != nil {
		return transaction.Transaction{}, err
	}
	return occurrence, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *ServiceImpl) notifyRecurringChanged(ctx context.Context, ownerId string) {
	event := event_bus.NewEvent(ctx, event_bus.RecurringChanged, event_bus.CollectionChanged{
		OwnerID:    ownerId,
		Collection: "recurring_transactions",
	})
	if err := s.bus.Publish(event); err != nil {
		log.Warnf("failed to publish recurring change event: %v", err)
	}
}

func (s *ServiceImpl) notifyTransactionsChanged(ctx context.Context, ownerId string) {
	event := event_bus.NewEvent(ctx, event_bus.TransactionsChanged, event_bus.CollectionChanged{
		OwnerID:    ownerId,
		Collection: "transactions",
	})
	if err := s.bus.Publish(event); err != nil {
		log.Warnf("failed to publish transactions change event: %v", err)
	}
}
