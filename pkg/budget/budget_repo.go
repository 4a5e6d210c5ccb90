package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrBudgetNotFound = errors.New("budget not found")

type Repo interface {
	Store(ctx context.Context, ownerId string, budget Budget) error
	Get(ctx context.Context, ownerId string, id string) (Budget, error)
	GetByCategory(ctx context.Context, ownerId string, category string) (Budget, error)
	GetAll(ctx context.Context, ownerId string) ([]Budget, error)
	Update(ctx context.Context, ownerId string, budget Budget) (bool, error)
	Delete(ctx context.Context, ownerId string, id string) (bool, error)
}

type RepoImpl struct {
	db *pgxpool.Pool
}

func NewBudgetRepo(db *pgxpool.Pool) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, ownerId string, budget Budget) error {
	query := `INSERT INTO budgets (id, owner_id, category, amount, color, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query,
		budget.ID,
		ownerId,
		budget.Category,
		budget.Amount,
		budget.Color,
		budget.CreatedAt,
	)
	if err != nil {
		err := fmt.Errorf("could not store budget: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) Get(ctx context.Context, ownerId string, id string) (Budget, error) {
	query := `SELECT id, category, amount, color, created_at FROM budgets WHERE id = $1 AND owner_id = $2`
	return r.scanBudget(r.db.QueryRow(ctx, query, id, ownerId))
}

func (r *RepoImpl) GetByCategory(ctx context.Context, ownerId string, category string) (Budget, error) {
	query := `SELECT id, category, amount, color, created_at FROM budgets WHERE owner_id = $1 AND category = $2`
	return r.scanBudget(r.db.QueryRow(ctx, query, ownerId, category))
}

func (r *RepoImpl) GetAll(ctx context.Context, ownerId string) ([]Budget, error) {
	query := `SELECT id, category, amount, color, created_at FROM budgets WHERE owner_id = $1 ORDER BY category`
	rows, err := r.db.Query(ctx, query, ownerId)
	if err != nil {
		err := fmt.Errorf("could not query budgets: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var budgets []Budget
	for rows.Next() {
		var b Budget
		if err := rows.Scan(&b.ID, &b.Category, &b.Amount, &b.Color, &b.CreatedAt); err != nil {
			err := fmt.Errorf("could not scan budget: %w", err)
			log.Error(err)
			return nil, err
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return budgets, nil
}

func (r *RepoImpl) Update(ctx context.Context, ownerId string, budget Budget) (bool, error) {
	query := `UPDATE budgets SET category = $1, amount = $2, color = $3 WHERE id = $4 AND owner_id = $5`
	tag, err := r.db.Exec(ctx, query, budget.Category, budget.Amount, budget.Color, budget.ID, ownerId)
	if err != nil {
		err := fmt.Errorf("could not update budget: %w", err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RepoImpl) Delete(ctx context.Context, ownerId string, id string) (bool, error) {
	query := "DELETE FROM budgets WHERE id = $1 AND owner_id = $2"
	tag, err := r.db.Exec(ctx, query, id, ownerId)
	if err != nil {
		err := fmt.Errorf("could not delete budget: %w", err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RepoImpl) scanBudget(row pgx.Row) (Budget, error) {
	var b Budget
	err := row.Scan(&b.ID, &b.Category, &b.Amount, &b.Color, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Budget{}, ErrBudgetNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not scan budget: %w", err)
		log.Error(err)
		return Budget{}, err
	}
	return b, nil
}
