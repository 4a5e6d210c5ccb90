package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type Repo interface {
	Store(ctx context.Context, ownerId string, tx Transaction) error
	Get(ctx context.Context, ownerId string, id string) (Transaction, error)
	GetAll(ctx context.Context, ownerId string, filter Filter) ([]Transaction, error)
	Update(ctx context.Context, ownerId string, tx Transaction) (bool, error)
	Delete(ctx context.Context, ownerId string, id string) (bool, error)
	SignedSumByAccount(ctx context.Context, ownerId string, accountId string) (decimal.Decimal, error)
	SumByCategoryAndMonth(ctx context.Context, ownerId string, category string, txType TxType, monthStart time.Time) (decimal.Decimal, error)
	SumByTypeAndMonth(ctx context.Context, ownerId string, txType TxType, monthStart time.Time) (decimal.Decimal, error)
}

type RepoImpl struct {
	db *pgxpool.Pool
}

func NewTransactionRepo(db *pgxpool.Pool) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, ownerId string, tx Transaction) error {
	query := `INSERT INTO transactions (id, owner_id, account_id, payee, category, amount, type, date, notes, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		tx.ID,
		ownerId,
		tx.AccountID,
		tx.Payee,
		tx.Category,
		tx.Amount,
		tx.Type,
		tx.Date.Format(DateFormat),
		tx.Notes,
		tx.CreatedAt,
	)
	if err != nil {
		err := fmt.Errorf("could not store transaction: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) Get(ctx context.Context, ownerId string, id string) (Transaction, error) {
	query := `SELECT id, account_id, payee, category, amount, type, date, notes, created_at
				FROM transactions WHERE id = $1 AND owner_id = $2`
	var tx Transaction
	err := r.db.QueryRow(ctx, query, id, ownerId).
		Scan(&tx.ID, &tx.AccountID, &tx.Payee, &tx.Category, &tx.Amount, &tx.Type, &tx.Date, &tx.Notes, &tx.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, ErrTransactionNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not scan transaction: %w", err)
		log.Error(err)
		return Transaction{}, err
	}
	return tx, nil
}

func (r *RepoImpl) GetAll(ctx context.Context, ownerId string, filter Filter) ([]Transaction, error) {
	conditions := []string{"owner_id = $1"}
	args := []any{ownerId}

	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}
	if filter.AccountID != "" {
		addCondition("account_id = $%d", filter.AccountID)
	}
	if filter.Category != "" {
		addCondition("category = $%d", filter.Category)
	}
	if filter.Type != "" {
		addCondition("type = $%d", filter.Type)
	}
	if !filter.From.IsZero() {
		addCondition("date >= $%d", filter.From.Format(DateFormat))
	}
	if !filter.To.IsZero() {
		addCondition("date <= $%d", filter.To.Format(DateFormat))
	}

	query := fmt.Sprintf(`SELECT id, account_id, payee, category, amount, type, date, notes, created_at
				FROM transactions WHERE %s ORDER BY date DESC, created_at DESC`, strings.Join(conditions, " AND "))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		var tx Transaction
		if err := rows.Scan(&tx.ID, &tx.AccountID, &tx.Payee, &tx.Category, &tx.Amount, &tx.Type, &tx.Date, &tx.Notes, &tx.CreatedAt); err != nil {
			err := fmt.Errorf("could not scan transaction: %w", err)
			log.Error(err)
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return transactions, nil
}

func (r *RepoImpl) Update(ctx context.Context, ownerId string, tx Transaction) (bool, error) {
	query := `UPDATE transactions SET
					account_id = $1,
					payee = $2,
					category = $3,
					amount = $4,
					type = $5,
					date = $6,
					notes = $7
				WHERE id = $8 AND owner_id = $9`
	tag, err := r.db.Exec(ctx, query,
		tx.AccountID,
		tx.Payee,
		tx.Category,
		tx.Amount,
		tx.Type,
		tx.Date.Format(DateFormat),
		tx.Notes,
		tx.ID,
		ownerId,
	)
	if err != nil {
		err := fmt.Errorf("could not update transaction: %w", err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RepoImpl) Delete(ctx context.Context, ownerId string, id string) (bool, error) {
	query := "DELETE FROM transactions WHERE id = $1 AND owner_id = $2"
	tag, err := r.db.Exec(ctx, query, id, ownerId)
	if err != nil {
		err := fmt.Errorf("could not delete transaction: %w", err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// SignedSumByAccount returns income minus expenses for one account.
func (r *RepoImpl) SignedSumByAccount(ctx context.Context, ownerId string, accountId string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END), 0)
				FROM transactions WHERE owner_id = $1 AND account_id = $2`
	var sum decimal.Decimal
	if err := r.db.QueryRow(ctx, query, ownerId, accountId).Scan(&sum); err != nil {
		err := fmt.Errorf("could not sum transactions for account: %w", err)
		log.Error(err)
		return decimal.Zero, err
	}
	return sum, nil
}

func (r *RepoImpl) SumByCategoryAndMonth(ctx context.Context, ownerId string, category string, txType TxType, monthStart time.Time) (decimal.Decimal, error) {
	monthEnd := monthStart.AddDate(0, 1, 0)
	query := `SELECT COALESCE(SUM(amount), 0)
				FROM transactions
				WHERE owner_id = $1 AND category = $2 AND type = $3 AND date >= $4 AND date < $5`
	var sum decimal.Decimal
	err := r.db.QueryRow(ctx, query, ownerId, category, txType, monthStart.Format(DateFormat), monthEnd.Format(DateFormat)).Scan(&sum)
	if err != nil {
		err := fmt.Errorf("could not sum transactions for category: %w", err)
		log.Error(err)
		return decimal.Zero, err
	}
	return sum, nil
}

func (r *RepoImpl) SumByTypeAndMonth(ctx context.Context, ownerId string, txType TxType, monthStart time.Time) (decimal.Decimal, error) {
	monthEnd := monthStart.AddDate(0, 1, 0)
	query := `SELECT COALESCE(SUM(amount), 0)
				FROM transactions
				WHERE owner_id = $1 AND type = $2 AND date >= $3 AND date < $4`
	var sum decimal.Decimal
	err := r.db.QueryRow(ctx, query, ownerId, txType, monthStart.Format(DateFormat), monthEnd.Format(DateFormat)).Scan(&sum)
	if err != nil {
		err := fmt.Errorf("could not sum transactions for type: %w", err)
		log.Error(err)
		return decimal.Zero, err
	}
	return sum, nil
}
