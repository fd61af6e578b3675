// internal/profile/repository.go

package profile

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository defines profile data access
type Repository interface {
	Create(ctx context.Context, p *UserProfile) error
	GetByUserID(ctx context.Context, userID int64) (*UserProfile, error)
	Update(ctx context.Context, p *UserProfile) error
	UpdateLocation(ctx context.Context, userID int64, lat, lng float64, city *string) error
	UpdateAvatar(ctx context.Context, userID int64, url string) error
	Exists(ctx context.Context, userID int64) (bool, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a PostgreSQL-backed profile repository
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const profileColumns = `
	user_id, nickname, avatar, bio, age, gender, height_cm, weight_kg,
	fitness_level, COALESCE(fitness_tags, '{}') AS fitness_tags,
	fitness_goal, latitude, longitude, city, created_at, updated_at`

func (r *postgresRepository) Create(ctx context.Context, p *UserProfile) error {
	query := `
		INSERT INTO user_profiles (
			user_id, nickname, avatar, bio, age, gender, height_cm, weight_kg,
			fitness_level, fitness_tags, fitness_goal, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`

	_, err := r.db.ExecContext(ctx, query,
		p.UserID, p.Nickname, p.Avatar, p.Bio, p.Age, p.Gender,
		p.HeightCm, p.WeightKg, p.FitnessLevel, p.FitnessTags,
		p.FitnessGoal, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByUserID(ctx context.Context, userID int64) (*UserProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM user_profiles WHERE user_id = $1`, profileColumns)

	var p UserProfile
	err := r.db.GetContext(ctx, &p, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) Update(ctx context.Context, p *UserProfile) error {
	query := `
		UPDATE user_profiles SET
			nickname = $2, bio = $3, age = $4, gender = $5,
			height_cm = $6, weight_kg = $7, fitness_level = $8,
			fitness_tags = $9, fitness_goal = $10, updated_at = $11
		WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query,
		p.UserID, p.Nickname, p.Bio, p.Age, p.Gender,
		p.HeightCm, p.WeightKg, p.FitnessLevel, p.FitnessTags,
		p.FitnessGoal, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if affected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateLocation(ctx context.Context, userID int64, lat, lng float64, city *string) error {
	query := `
		UPDATE user_profiles
		SET latitude = $2, longitude = $3, city = $4, updated_at = $5
		WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, userID, lat, lng, city, time.Now())
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	if affected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateAvatar(ctx context.Context, userID int64, url string) error {
	query := `UPDATE user_profiles SET avatar = $2, updated_at = $3 WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, userID, url, time.Now())
	if err != nil {
		return fmt.Errorf("update avatar: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update avatar: %w", err)
	}
	if affected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *postgresRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM user_profiles WHERE user_id = $1)`
	if err := r.db.GetContext(ctx, &exists, query, userID); err != nil {
		return false, fmt.Errorf("check profile exists: %w", err)
	}
	return exists, nil
}
