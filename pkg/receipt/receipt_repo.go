package receipt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrReceiptNotFound = errors.New("receipt not found")

type Repo interface {
	Store(ctx context.Context, ownerId string, receipt Receipt) error
	Get(ctx context.Context, ownerId string, id string) (Receipt, error)
	GetAll(ctx context.Context, ownerId string) ([]Receipt, error)
	Update(ctx context.Context, ownerId string, receipt Receipt) (bool, error)
	Delete(ctx context.Context, ownerId string, id string) (bool, error)
}

type RepoImpl struct {
	db *pgxpool.Pool
}

func NewReceiptRepo(db *pgxpool.Pool) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, ownerId string, receipt Receipt) error {
	query := `INSERT INTO receipts (id, owner_id, store_name, date, total, tax, category, notes, ocr_text, tax_deductible, image_path, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		receipt.ID,
		ownerId,
		receipt.StoreName,
		nullableDate(receipt.Date),
		receipt.Total,
		receipt.Tax,
		receipt.Category,
		receipt.Notes,
		receipt.OcrText,
		receipt.TaxDeductible,
		receipt.ImagePath,
		receipt.CreatedAt,
	)
	if err != nil {
		err := fmt.Errorf("could not store receipt: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) Get(ctx context.Context, ownerId string, id string) (Receipt, error) {
	query := `SELECT id, store_name, date, total, tax, category, notes, ocr_text, tax_deductible, image_path, created_at
				FROM receipts WHERE id = $1 AND owner_id = $2`
	rec, err := scanReceipt(r.db.QueryRow(ctx, query, id, ownerId))
	if errors.Is(err, pgx.ErrNoRows) {
		return Receipt{}, ErrReceiptNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not scan receipt: %w", err)
		log.Error(err)
		return Receipt{}, err
	}
	return rec, nil
}

func (r *RepoImpl) GetAll(ctx context.Context, ownerId string) ([]Receipt, error) {
	query := `SELECT id, store_name, date, total, tax, category, notes, ocr_text, tax_deductible, image_path, created_at
				FROM receipts WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, ownerId)
	if err != nil {
		err := fmt.Errorf("could not query receipts: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var receipts []Receipt
	for rows.Next() {
		rec, err := scanReceipt(rows)
		if err != nil {
			err := fmt.Errorf("could not scan receipt: %w", err)
			log.Error(err)
			return nil, err
		}
		receipts = append(receipts, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return receipts, nil
}

func (r *RepoImpl) Update(ctx context.Context, ownerId string, receipt Receipt) (bool, error) {
	query := `UPDATE receipts SET
					store_name = $1,
					date = $2,
					total = $3,
					tax = $4,
					category = $5,
					notes = $6,
					ocr_text = $7,
					tax_deductible = $8,
					image_path = $9
				WHERE id = $10 AND owner_id = $11`
	tag, err := r.db.Exec(ctx, query,
		receipt.StoreName,
		nullableDate(receipt.Date),
		receipt.Total,
		receipt.Tax,
		receipt.Category,
		receipt.Notes,
		receipt.OcrText,
		receipt.TaxDeductible,
		receipt.ImagePath,
		receipt.ID,
		ownerId,
	)
	if err != nil {
		err := fmt.Errorf("could not update receipt: %w", err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RepoImpl) Delete(ctx context.Context, ownerId string, id string) (bool, error) {
	query := "DELETE FROM receipts WHERE id = $1 AND owner_id = $2"
	tag, err := r.db.Exec(ctx, query, id, ownerId)
	if err != nil {
		err := fmt.Errorf("could not delete receipt: %w", err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanReceipt(row pgx.Row) (Receipt, error) {
	var rec Receipt
	var date *time.Time
	err := row.Scan(
		&rec.ID,
		&rec.StoreName,
		&date,
		&rec.Total,
		&rec.Tax,
		&rec.Category,
		&rec.Notes,
		&rec.OcrText,
		&rec.TaxDeductible,
		&rec.ImagePath,
		&rec.CreatedAt,
	)
	if err != nil {
		return Receipt{}, err
	}
	if date != nil {
		rec.Date = *date
	}
	return rec, nil
}

func nullableDate(date time.Time) any {
	if date.IsZero() {
		return nil
	}
	return date
}
