package account

import (
	"context"
)

type StubAccountRepo struct {
	data map[string]Account
}

func NewStubAccountRepo() *StubAccountRepo {
	return &StubAccountRepo{data: map[string]Account{}}
}

func (s *StubAccountRepo) Store(ctx context.Context, ownerId string, account Account) error {
	s.data[account.ID] = account
	return nil
}

func (s *StubAccountRepo) Get(ctx context.Context, ownerId string, id string) (Account, error) {
	account, ok := s.data[id]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return account, nil
}

func (s *StubAccountRepo) GetAll(ctx context.Context, ownerId string) ([]Account, error) {
	accounts := make([]Account, 0, len(s.data))
	for _, account := range s.data {
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func (s *StubAccountRepo) Update(ctx context.Context, ownerId string, account Account) (bool, error) {
	if _, ok := s.data[account.ID]; !ok {
		return false, nil
	}
	s.data[account.ID] = account
	return true, nil
}

func (s *StubAccountRepo) Delete(ctx context.Context, ownerId string, id string) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubAccountRepo) Cleanup() {
	s.data = map[string]Account{}
}
