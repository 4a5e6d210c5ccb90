package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/monetapp/moneta/internal/auth"
	"github.com/monetapp/moneta/internal/mailer"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotApproved        = errors.New("account is not approved")
)

type SignupRequest struct {
	Email       string
	Username    string
	DisplayName string
	Password    string
}

type Service interface {
	Signup(ctx context.Context, req SignupRequest) (User, error)
	Login(ctx context.Context, email, password string) (string, User, error)
	GetUser(ctx context.Context, id string) (User, error)
	GetCurrentUser(ctx context.Context) (User, error)
	PendingUsers(ctx context.Context) ([]User, error)
	Approve(ctx context.Context, id string) (bool, error)
	Reject(ctx context.Context, id string) (bool, error)
}

type ServiceImpl struct {
	repo       Repo
	tokens     *auth.TokenService
	mailer     mailer.Mailer
	adminEmail string
}

func NewUserService(repo Repo, tokens *auth.TokenService, mailer mailer.Mailer, adminEmail string) *ServiceImpl {
	return &ServiceImpl{repo: repo, tokens: tokens, mailer: mailer, adminEmail: adminEmail}
}

// Signup registers a new user in pending state and notifies the admin address.
// The very first registered user becomes an approved admin so the instance can
// be bootstrapped. The notification email is fire-and-forget.
func (s *ServiceImpl) Signup(ctx context.Context, req SignupRequest) (User, error) {
	if !ValidateEmail(req.Email) {
		return User{}, fmt.Errorf("invalid email format")
	}
	if !ValidateUsername(req.Username) {
		return User{}, fmt.Errorf("username must be between 3 and 30 characters")
	}
	if !ValidatePassword(req.Password) {
		return User{}, fmt.Errorf("password must be at least 8 characters with uppercase, lowercase, digit, and special character")
	}

	if _, err := s.repo.GetUserByEmail(ctx, req.Email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("could not hash password: %w", err)
	}

	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return User{}, err
	}

	newUser := User{
		Id:           uuid.NewString(),
		Email:        req.Email,
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hash),
		Role:         RoleUser,
		Status:       StatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	if count == 0 {
		newUser.Role = RoleAdmin
		newUser.Status = StatusApproved
	}

	if err := s.repo.Store(ctx, newUser); err != nil {
		return User{}, err
	}

	if newUser.Status == StatusPending && s.adminEmail != "" {
		go func() {
			subject := "New Moneta signup awaiting approval"
			body := fmt.Sprintf("User %s (%s) signed up and is waiting for approval.", newUser.Username, newUser.Email)
			if err := s.mailer.Send(s.adminEmail, subject, body); err != nil {
				log.Warnf("admin notification for signup %s failed: %v", newUser.Email, err)
			}
		}()
	}

	return newUser, nil
}

func (s *ServiceImpl) Login(ctx context.Context, email, password string) (string, User, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return "", User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", User{}, ErrInvalidCredentials
	}
	if u.Status != StatusApproved {
		return "", User{}, ErrNotApproved
	}

	token, err := s.tokens.Issue(u.Id, string(u.Role))
	if err != nil {
		return "", User{}, err
	}
	return token, u, nil
}

func (s *ServiceImpl) GetUser(ctx context.Context, id string) (User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *ServiceImpl) GetCurrentUser(ctx context.Context) (User, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetUser(ctx, userId)
}

func (s *ServiceImpl) PendingUsers(ctx context.Context) ([]User, error) {
	return s.repo.GetUsersByStatus(ctx, StatusPending)
}

func (s *ServiceImpl) Approve(ctx context.Context, id string) (bool, error) {
	return s.repo.UpdateStatus(ctx, id, StatusApproved)
}

func (s *ServiceImpl) Reject(ctx context.Context, id string) (bool, error) {
	return s.repo.UpdateStatus(ctx, id, StatusRejected)
}
