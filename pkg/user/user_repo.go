package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrUserNotFound = errors.New("user not found")

type Repo interface {
	Store(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUsersByStatus(ctx context.Context, status Status) ([]User, error)
	UpdateStatus(ctx context.Context, id string, status Status) (bool, error)
	CountUsers(ctx context.Context) (int, error)
}

type RepoImpl struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *RepoImpl {
	return &RepoImpl{db: db}
}

const userColumns = "id, email, username, display_name, password_hash, role, status, created_at"

func (r *RepoImpl) Store(ctx context.Context, user User) error {
	query := `INSERT INTO users (id, email, username, display_name, password_hash, role, status, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		user.Id,
		user.Email,
		user.Username,
		user.DisplayName,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.CreatedAt,
	)
	if err != nil {
		err := fmt.Errorf("could not store user: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) GetUser(ctx context.Context, id string) (User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *RepoImpl) GetUserByEmail(ctx context.Context, email string) (User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE lower(email) = lower($1)", userColumns)
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *RepoImpl) GetUsersByStatus(ctx context.Context, status Status) ([]User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE status = $1 ORDER BY created_at", userColumns)
	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		err := fmt.Errorf("could not query users: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.Id, &u.Email, &u.Username, &u.DisplayName, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt); err != nil {
			err := fmt.Errorf("could not scan user: %w", err)
			log.Error(err)
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return users, nil
}

func (r *RepoImpl) UpdateStatus(ctx context.Context, id string, status Status) (bool, error) {
	query := "UPDATE users SET status = $1 WHERE id = $2"
	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		err := fmt.Errorf("could not update user status: %w", err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RepoImpl) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		err := fmt.Errorf("could not count users: %w", err)
		log.Error(err)
		return 0, err
	}
	return count, nil
}

func (r *RepoImpl) scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.Id, &u.Email, &u.Username, &u.DisplayName, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not scan user: %w", err)
		log.Error(err)
		return User{}, err
	}
	return u, nil
}
