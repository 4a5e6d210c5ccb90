package recurring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/monetapp/moneta/pkg/transaction"
	log "github.com/sirupsen/logrus"
)

var (
	ErrRecurringNotFound = errors.New("recurring transaction not found")
	// ErrDueDateMoved signals that another caller advanced the template's due
	// date between read and write. The losing write is rolled back entirely,
	// so no duplicate occurrence is generated.
	ErrDueDateMoved = errors.New("recurring due date was concurrently advanced")
)

type Repo interface {
	Store(ctx context.Context, ownerId string, rec RecurringTransaction) error
	Get(ctx context.Context, ownerId string, id string) (RecurringTransaction, error)
	GetAll(ctx context.Context, ownerId string) ([]RecurringTransaction, error)
	Update(ctx context.Context, ownerId string, rec RecurringTransaction) (bool, error)
	Delete(ctx context.Context, ownerId string, id string) (bool, error)
	SetActive(ctx context.Context, ownerId string, id string, active bool) (bool, error)
	// AdvanceDueDate moves the due date forward, guarded by the expected
	// current due date.
	AdvanceDueDate(ctx context.Context, ownerId string, id string, expectedDue, nextDue time.Time) error
	// GenerateOccurrence inserts the occurrence transaction and advances the
	// template's schedule in a single database transaction.
	GenerateOccurrence(ctx context.Context, ownerId string, rec RecurringTransaction, occurrence transaction.Transaction, nextDue time.Time) error
}

type RepoImpl struct {
	db *pgxpool.Pool
}

func NewRecurringRepo(db *pgxpool.Pool) *RepoImpl {
	return &RepoImpl{db: db}
}

const recurringColumns = "id, account_id, payee, category, amount, type, frequency, start_date, next_due_date, last_generated_date, active, created_at"

func (r *RepoImpl) Store(ctx context.Context, ownerId string, rec RecurringTransaction) error {
	query := `INSERT INTO recurring_transactions
				(id, owner_id, account_id, payee, category, amount, type, frequency, start_date, next_due_date, last_generated_date, active, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	var lastGenerated any
	if rec.LastGeneratedDate != nil {
		lastGenerated = rec.LastGeneratedDate.Format(transaction.DateFormat)
	}
	_, err := r.db.Exec(ctx, query,
		rec.ID,
		ownerId,
		rec.AccountID,
		rec.Payee,
		rec.Category,
		rec.Amount,
		rec.Type,
		rec.Frequency,
		rec.StartDate.Format(transaction.DateFormat),
		rec.NextDueDate.Format(transaction.DateFormat),
		lastGenerated,
		rec.Active,
		rec.CreatedAt,
	)
	if err != nil {
		err := fmt.Errorf("could not store recurring transaction: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) Get(ctx context.Context, ownerId string, id string) (RecurringTransaction, error) {
	query := fmt.Sprintf("SELECT %s FROM recurring_transactions WHERE id = $1 AND owner_id = $2", recurringColumns)
	return scanRecurring(r.db.QueryRow(ctx, query, id, ownerId))
}

func (r *RepoImpl) GetAll(ctx context.Context, ownerId string) ([]RecurringTransaction, error) {
	query := fmt.Sprintf("SELECT %s FROM recurring_transactions WHERE owner_id = $1 ORDER BY next_due_date", recurringColumns)
	rows, err := r.db.Query(ctx, query, ownerId)
	if err != nil {
		err := fmt.Errorf("could not query recurring transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var recs []RecurringTransaction
	for rows.Next() {
		rec, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return recs, nil
}

func (r *RepoImpl) Update(ctx context.Context, ownerId string, rec RecurringTransaction) (bool, error) {
	query := `UPDATE recurring_transactions SET
					account_id = $1,
					payee = $2,
					category = $3,
					amount = $4,
					type = $5,
					frequency = $6
				WHERE id = $7 AND owner_id = $8`
	tag, err := r.db.Exec(ctx, query,
		rec.AccountID,
		rec.Payee,
		rec.Category,
		rec.Amount,
		rec.Type,
		rec.Frequency,
		rec.ID,
		ownerId,
	)
	if err != nil {
		err := fmt.Errorf("could not update recurring transaction: %w", err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RepoImpl) Delete(ctx context.Context, ownerId string, id string) (bool, error) {
	query := "DELETE FROM recurring_transactions WHERE id = $1 AND owner_id = $2"
	tag, err := r.db.Exec(ctx, query, id, ownerId)
	if err != nil {
		err := fmt.Errorf("could not delete recurring transaction: %w", err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RepoImpl) SetActive(ctx context.Context, ownerId string, id string, active bool) (bool, error) {
	query := "UPDATE recurring_transactions SET active = $1 WHERE id = $2 AND owner_id = $3"
	tag, err := r.db.Exec(ctx, query, active, id, ownerId)
	if err != nil {
		err := fmt.Errorf("could not toggle recurring transaction: %w", err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RepoImpl) AdvanceDueDate(ctx context.Context, ownerId string, id string, expectedDue, nextDue time.Time) error {
	query := `UPDATE recurring_transactions SET next_due_date = $1
				WHERE id = $2 AND owner_id = $3 AND next_due_date = $4`
	tag, err := r.db.Exec(ctx, query,
		nextDue.Format(transaction.DateFormat),
		id,
		ownerId,
		expectedDue.Format(transaction.DateFormat),
	)
	if err != nil {
		err := fmt.Errorf("could not advance due date: %w", err)
		log.Error(err)
		return err
	}
	if tag.RowsAffected() != 1 {
		return ErrDueDateMoved
	}
	return nil
}

func (r *RepoImpl) GenerateOccurrence(ctx context.Context, ownerId string, rec RecurringTransaction, occurrence transaction.Transaction, nextDue time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insert := `INSERT INTO transactions (id, owner_id, account_id, payee, category, amount, type, date, notes, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = tx.Exec(ctx, insert,
		occurrence.ID,
		ownerId,
		occurrence.AccountID,
		occurrence.Payee,
		occurrence.Category,
		occurrence.Amount,
		occurrence.Type,
		occurrence.Date.Format(transaction.DateFormat),
		occurrence.Notes,
		occurrence.CreatedAt,
	)
	if err != nil {
		err := fmt.Errorf("could not insert occurrence: %w", err)
		log.Error(err)
		return err
	}

	update := `UPDATE recurring_transactions SET next_due_date = $1, last_generated_date = $2
				WHERE id = $3 AND owner_id = $4 AND next_due_date = $5`
	tag, err := tx.Exec(ctx, update,
		nextDue.Format(transaction.DateFormat),
		rec.NextDueDate.Format(transaction.DateFormat),
		rec.ID,
		ownerId,
		rec.NextDueDate.Format(transaction.DateFormat),
	)
	if err != nil {
		err := fmt.Errorf("could not advance recurring schedule: %w", err)
		log.Error(err)
		return err
	}
	if tag.RowsAffected() != 1 {
		// Another caller already generated this occurrence. Rolling back also
		// discards the inserted transaction.
		return ErrDueDateMoved
	}

	return tx.Commit(ctx)
}

func scanRecurring(row pgx.Row) (RecurringTransaction, error) {
	var rec RecurringTransaction
	var lastGenerated *time.Time
	err := row.Scan(
		&rec.ID,
		&rec.AccountID,
		&rec.Payee,
		&rec.Category,
		&rec.Amount,
		&rec.Type,
		&rec.Frequency,
		&rec.StartDate,
		&rec.NextDueDate,
		&lastGenerated,
		&rec.Active,
		&rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return RecurringTransaction{}, ErrRecurringNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not scan recurring transaction: %w", err)
		log.Error(err)
		return RecurringTransaction{}, err
	}
	rec.LastGeneratedDate = lastGenerated
	return rec, nil
}
