// internal/auth/repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Repository handles user persistence
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByEmailOrUsername(ctx context.Context, emailOrUsername string) (*User, error)
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a Postgres-backed auth repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateUser(ctx context.Context, user *User) error {
	query := `
        INSERT INTO users (email, username, password_hash, is_verified)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `

	return r.db.QueryRowxContext(
		ctx, query,
		user.Email, user.Username, user.PasswordHash, user.IsVerified,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *postgresRepository) GetUserByID(ctx context.Context, id int64) (*User, error) {
	var user User
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *postgresRepository) GetUserByEmailOrUsername(ctx context.Context, emailOrUsername string) (*User, error) {
	var user User
	query := `SELECT * FROM users WHERE email = $1 OR username = $1`

	err := r.db.GetContext(ctx, &user, query, emailOrUsername)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *postgresRepository) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	err := r.db.GetContext(ctx, &exists, query, email)
	return exists, err
}

func (r *postgresRepository) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`

	err := r.db.GetContext(ctx, &exists, query, username)
	return exists, err
}
