// internal/bmi/repository.go

package bmi

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository defines BMI record data access
type Repository interface {
	Create(ctx context.Context, record *Record) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]*Record, error)
	Latest(ctx context.Context, userID int64) (*Record, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a PostgreSQL-backed BMI repository
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, record *Record) error {
	query := `
		INSERT INTO bmi_records (user_id, height_cm, weight_kg, bmi, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRowxContext(ctx, query,
		record.UserID, record.HeightCm, record.WeightKg,
		record.BMI, record.Category, record.CreatedAt,
	).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("create bmi record: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*Record, error) {
	query := `
		SELECT id, user_id, height_cm, weight_kg, bmi, category, created_at
		FROM bmi_records
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryxContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list bmi records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var rec Record
		if err := rows.StructScan(&rec); err != nil {
			return nil, fmt.Errorf("scan bmi record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

func (r *postgresRepository) Latest(ctx context.Context, userID int64) (*Record, error) {
	query := `
		SELECT id, user_id, height_cm, weight_kg, bmi, category, created_at
		FROM bmi_records
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var rec Record
	err := r.db.GetContext(ctx, &rec, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrNoRecords
	}
	if err != nil {
		return nil, fmt.Errorf("get latest bmi record: %w", err)
	}
	return &rec, nil
}
