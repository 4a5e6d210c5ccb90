package user

import (
	"context"
	"strings"
)

type StubUserRepo struct {
	data map[string]User
}

func NewStubUserRepo() *StubUserRepo {
	return &StubUserRepo{data: map[string]User{}}
}

func (s *StubUserRepo) Store(ctx context.Context, user User) error {
	s.data[user.Id] = user
	return nil
}

func (s *StubUserRepo) GetUser(ctx context.Context, id string) (User, error) {
	u, ok := s.data[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (s *StubUserRepo) GetUserByEmail(ctx context.Context, email string) (User, error) {
	for _, u := range s.data {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *StubUserRepo) GetUsersByStatus(ctx context.Context, status Status) ([]User, error) {
	users := make([]User, 0)
	for _, u := range s.data {
		if u.Status == status {
			users = append(users, u)
		}
	}
	return users, nil
}

func (s *StubUserRepo) UpdateStatus(ctx context.Context, id string, status Status) (bool, error) {
	u, ok := s.data[id]
	if !ok {
		return false, nil
	}
	u.Status = status
	s.data[id] = u
	return true, nil
}

func (s *StubUserRepo) CountUsers(ctx context.Context) (int, error) {
	return len(s.data), nil
}

func (s *StubUserRepo) Cleanup() {
	s.data = map[string]User{}
}
