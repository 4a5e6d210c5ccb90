package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrAccountNotFound = errors.New("account not found")

type Repo interface {
	Store(ctx context.Context, ownerId string, account Account) error
	Get(ctx context.Context, ownerId string, id string) (Account, error)
	GetAll(ctx context.Context, ownerId string) ([]Account, error)
	Update(ctx context.Context, ownerId string, account Account) (bool, error)
	Delete(ctx context.Context, ownerId string, id string) (bool, error)
}

type RepoImpl struct {
	db *pgxpool.Pool
}

func NewAccountRepo(db *pgxpool.Pool) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, ownerId string, account Account) error {
	query := `INSERT INTO accounts (id, owner_id, name, type, starting_balance, color, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		account.ID,
		ownerId,
		account.Name,
		account.Type,
		account.StartingBalance,
		account.Color,
		account.CreatedAt,
	)
	if err != nil {
		err := fmt.Errorf("could not store account: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) Get(ctx context.Context, ownerId string, id string) (Account, error) {
	query := `SELECT id, name, type, starting_balance, color, created_at
				FROM accounts WHERE id = $1 AND owner_id = $2`
	var a Account
	err := r.db.QueryRow(ctx, query, id, ownerId).
		Scan(&a.ID, &a.Name, &a.Type, &a.StartingBalance, &a.Color, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrAccountNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not scan account: %w", err)
		log.Error(err)
		return Account{}, err
	}
	return a, nil
}

func (r *RepoImpl) GetAll(ctx context.Context, ownerId string) ([]Account, error) {
	query := `SELECT id, name, type, starting_balance, color, created_at
				FROM accounts WHERE owner_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, ownerId)
	if err != nil {
		err := fmt.Errorf("could not query accounts: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.StartingBalance, &a.Color, &a.CreatedAt); err != nil {
			err := fmt.Errorf("could not scan account: %w", err)
			log.Error(err)
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return accounts, nil
}

func (r *RepoImpl) Update(ctx context.Context, ownerId string, account Account) (bool, error) {
	query := `UPDATE accounts SET
					name = $1,
					type = $2,
					starting_balance = $3,
					color = $4
				WHERE id = $5 AND owner_id = $6`
	tag, err := r.db.Exec(ctx, query,
		account.Name,
		account.Type,
		account.StartingBalance,
		account.Color,
		account.ID,
		ownerId,
	)
	if err != nil {
		err := fmt.Errorf("could not update account: %w", err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RepoImpl) Delete(ctx context.Context, ownerId string, id string) (bool, error) {
	query := "DELETE FROM accounts WHERE id = $1 AND owner_id = $2"
	tag, err := r.db.Exec(ctx, query, id, ownerId)
	if err != nil {
		err := fmt.Errorf("could not delete account: %w", err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
