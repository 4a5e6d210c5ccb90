package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/monetapp/moneta/internal/event_bus"
	"github.com/monetapp/moneta/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Create(ctx context.Context, tx Transaction) (Transaction, error)
	Get(ctx context.Context, id string) (Transaction, error)
	GetAll(ctx context.Context, filter Filter) ([]Transaction, error)
	Update(ctx context.Context, tx Transaction) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type ServiceImpl struct {
	repo Repo
	bus  *event_bus.EventBus
}

func NewTransactionService(repo Repo, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus}
}

func validate(tx Transaction) error {
	if tx.Payee == "" {
		return fmt.Errorf("payee is required")
	}
	if !tx.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}
	if !tx.Type.IsValid() {
		return fmt.Errorf("invalid transaction type: %s", tx.Type)
	}
	if tx.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	return nil
}

func (s *ServiceImpl) Create(ctx context.Context, tx Transaction) (Transaction, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := validate(tx); err != nil {
		return Transaction{}, err
	}
	if tx.Category == "" {
		tx.Category = "Uncategorized"
	}

	tx.ID = uuid.NewString()
	tx.CreatedAt = time.Now().UTC()
	if err := s.repo.Store(ctx, ownerId, tx); err != nil {
		return Transaction{}, err
	}

	s.notifyChanged(ctx, ownerId)
	return tx, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Transaction, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, ownerId, id)
}

func (s *ServiceImpl) GetAll(ctx context.Context, filter Filter) ([]Transaction, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, ownerId, filter)
}

func (s *ServiceImpl) Update(ctx context.Context, tx Transaction) (bool, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := validate(tx); err != nil {
		return false, err
	}

	updated, err := s.repo.Update(ctx, ownerId, tx)
	if err != nil {
		return false, err
	}
	if !updated {
		log.Warnf("transaction not updated, probably because it does not exist (%s) or the user (%s) is not the owner", tx.ID, ownerId)
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
	event := event_bus.NewEvent(ctx, event_bus.TransactionsChanged, event_bus.CollectionChanged{
		OwnerID:    ownerId,
		Collection: "transactions",
	})
	if err := s.bus.Publish(event); err != nil {
		log.Warnf("failed to publish transactions change event: %v", err)
	}
}
