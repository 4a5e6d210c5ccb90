package account

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/monetapp/moneta/internal/event_bus"
	"github.com/monetapp/moneta/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// SignedSums exposes the per-account signed transaction sum (income positive,
// expense negative) needed to derive the current balance.
type SignedSums interface {
	SignedSumByAccount(ctx context.Context, ownerId string, accountId string) (decimal.Decimal, error)
}

type Service interface {
	Create(ctx context.Context, account Account) (Account, error)
	Get(ctx context.Context, id string) (Account, error)
	GetAll(ctx context.Context) ([]Account, error)
	Update(ctx context.Context, account Account) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type ServiceImpl struct {
	repo Repo
	sums SignedSums
	bus  *event_bus.EventBus
}

func NewAccountService(repo Repo, sums SignedSums, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, sums: sums, bus: bus}
}

func (s *ServiceImpl) Create(ctx context.Context, account Account) (Account, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return Account{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if account.Name == "" {
		return Account{}, fmt.Errorf("account name is required")
	}
	if !account.Type.IsValid() {
		return Account{}, fmt.Errorf("invalid account type: %s", account.Type)
	}

	account.ID = uuid.NewString()
	account.CreatedAt = time.Now().UTC()
	if err := s.repo.Store(ctx, ownerId, account); err != nil {
		return Account{}, err
	}
	account.Balance = account.StartingBalance

	s.notifyChanged(ctx, ownerId)
	return account, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Account, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return Account{}, fmt.Errorf("failed to get current user: %w", err)
	}
	account, err := s.repo.Get(ctx, ownerId, id)
	if err != nil {
		return Account{}, err
	}
	return s.withBalance(ctx, ownerId, account)
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Account, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	accounts, err := s.repo.GetAll(ctx, ownerId)
	if err != nil {
		return nil, err
	}
	for i, account := range accounts {
		accounts[i], err = s.withBalance(ctx, ownerId, account)
		if err != nil {
			return nil, err
		}
	}
	return accounts, nil
}

func (s *ServiceImpl) Update(ctx context.Context, account Account) (bool, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	if account.Name == "" {
		return false, fmt.Errorf("account name is required")
	}
	if !account.Type.IsValid() {
		return false, fmt.Errorf("invalid account type: %s", account.Type)
	}

	updated, err := s.repo.Update(ctx, ownerId, account)
	if err != nil {
		return false, err
	}
	if !updated {
		log.Warnf("account not updated, probably because it does not exist (%s) or the user (%s) is not the owner", account.ID, ownerId)
		return false, nil
	}
	s.notifyChanged(ctx, ownerId)
	return true, nil
}

// Delete removes the account only. Its transactions are left in place, so
// other accounts' balances are unaffected.
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

func (s *ServiceImpl) withBalance(ctx context.Context, ownerId string, account Account) (Account, error) {
	sum, err := s.sums.SignedSumByAccount(ctx, ownerId, account.ID)
	if err != nil {
		return Account{}, fmt.Errorf("could not compute balance for account %s: %w", account.ID, err)
	}
	account.Balance = account.StartingBalance.Add(sum)
	return account, nil
}

func (s *ServiceImpl) notifyChanged(ctx context.Context, ownerId string) {
	event := event_bus.NewEvent(ctx, event_bus.AccountsChanged, event_bus.CollectionChanged{
		OwnerID:    ownerId,
		Collection: "accounts",
	})
	if err := s.bus.Publish(event); err != nil {
		log.Warnf("failed to publish accounts change event: %v", err)
	}
}
