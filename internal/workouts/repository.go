// internal/workouts/repository.go

package workouts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository defines workout data access
type Repository interface {
	CreatePlan(ctx context.Context, plan *Plan) error
	GetPlanByID(ctx context.Context, id int64) (*Plan, error)
	ListPlansByUser(ctx context.Context, userID int64) ([]*Plan, error)
	ListPublicPlans(ctx context.Context, difficulty string, limit int) ([]*Plan, error)
	UpdatePlan(ctx context.Context, plan *Plan) error
	DeletePlan(ctx context.Context, id, userID int64) (bool, error)

	CreateSession(ctx context.Context, session *Session) error
	ListSessionsByUser(ctx context.Context, userID int64, limit int) ([]*Session, error)
	GetUserStats(ctx context.Context, userID int64, weekStart time.Time) (*UserStats, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a PostgreSQL-backed workout repository
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const planColumns = `
	id, user_id, name, description, difficulty, duration_min,
	exercises, is_public, created_at, updated_at`

func (r *postgresRepository) CreatePlan(ctx context.Context, plan *Plan) error {
	query := `
		INSERT INTO workout_plans (
			user_id, name, description, difficulty, duration_min,
			exercises, is_public, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id`

	err := r.db.QueryRowxContext(ctx, query,
		plan.UserID, plan.Name, plan.Description, plan.Difficulty,
		plan.DurationMin, plan.Exercises, plan.IsPublic, plan.CreatedAt,
	).Scan(&plan.ID)
	if err != nil {
		return fmt.Errorf("create workout plan: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetPlanByID(ctx context.Context, id int64) (*Plan, error) {
	query := fmt.Sprintf(`SELECT %s FROM workout_plans WHERE id = $1`, planColumns)

	var plan Plan
	err := r.db.GetContext(ctx, &plan, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get workout plan: %w", err)
	}
	return &plan, nil
}

func (r *postgresRepository) ListPlansByUser(ctx context.Context, userID int64) ([]*Plan, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM workout_plans
		WHERE user_id = $1
		ORDER BY created_at DESC`, planColumns)

	return r.queryPlans(ctx, query, userID)
}

func (r *postgresRepository) ListPublicPlans(ctx context.Context, difficulty string, limit int) ([]*Plan, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM workout_plans
		WHERE is_public = true`, planColumns)
	args := []interface{}{}

	if difficulty != "" {
		query += ` AND difficulty = $1 ORDER BY created_at DESC LIMIT $2`
		args = append(args, difficulty, limit)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1`
		args = append(args, limit)
	}

	return r.queryPlans(ctx, query, args...)
}

func (r *postgresRepository) queryPlans(ctx context.Context, query string, args ...interface{}) ([]*Plan, error) {
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workout plans: %w", err)
	}
	defer rows.Close()

	var plans []*Plan
	for rows.Next() {
		var plan Plan
		if err := rows.StructScan(&plan); err != nil {
			return nil, fmt.Errorf("scan workout plan: %w", err)
		}
		plans = append(plans, &plan)
	}
	return plans, rows.Err()
}

func (r *postgresRepository) UpdatePlan(ctx context.Context, plan *Plan) error {
	query := `
		UPDATE workout_plans SET
			name = $2, description = $3, difficulty = $4, duration_min = $5,
			exercises = $6, is_public = $7, updated_at = $8
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		plan.ID, plan.Name, plan.Description, plan.Difficulty,
		plan.DurationMin, plan.Exercises, plan.IsPublic, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("update workout plan: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update workout plan: %w", err)
	}
	if affected == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func (r *postgresRepository) DeletePlan(ctx context.Context, id, userID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM workout_plans WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete workout plan: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete workout plan: %w", err)
	}
	return affected > 0, nil
}

func (r *postgresRepository) CreateSession(ctx context.Context, session *Session) error {
	query := `
		INSERT INTO workout_sessions (
			user_id, plan_id, activity, duration_min, calories_burned,
			notes, performed_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := r.db.QueryRowxContext(ctx, query,
		session.UserID, session.PlanID, session.Activity, session.DurationMin,
		session.CaloriesBurned, session.Notes, session.PerformedAt, session.CreatedAt,
	).Scan(&session.ID)
	if err != nil {
		return fmt.Errorf("create workout session: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListSessionsByUser(ctx context.Context, userID int64, limit int) ([]*Session, error) {
	query := `
		SELECT id, user_id, plan_id, activity, duration_min, calories_burned,
		       notes, performed_at, created_at
		FROM workout_sessions
		WHERE user_id = $1
		ORDER BY performed_at DESC
		LIMIT $2`

	rows, err := r.db.QueryxContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list workout sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		var s Session
		if err := rows.StructScan(&s); err != nil {
			return nil, fmt.Errorf("scan workout session: %w", err)
		}
		sessions = append(sessions, &s)
	}
	return sessions, rows.Err()
}

func (r *postgresRepository) GetUserStats(ctx context.Context, userID int64, weekStart time.Time) (*UserStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_sessions,
			COALESCE(SUM(duration_min), 0) AS total_minutes,
			COALESCE(SUM(calories_burned), 0) AS total_calories,
			COUNT(*) FILTER (WHERE performed_at >= $2) AS sessions_this_week,
			COALESCE(AVG(duration_min), 0) AS avg_duration_min
		FROM workout_sessions
		WHERE user_id = $1`

	var stats UserStats
	err := r.db.QueryRowxContext(ctx, query, userID, weekStart).Scan(
		&stats.TotalSessions, &stats.TotalMinutes, &stats.TotalCalories,
		&stats.SessionsThisWeek, &stats.AvgDurationMin,
	)
	if err != nil {
		return nil, fmt.Errorf("get workout stats: %w", err)
	}

	if stats.TotalSessions > 0 {
		var top string
		topQuery := `
			SELECT activity FROM workout_sessions
			WHERE user_id = $1
			GROUP BY activity
			ORDER BY COUNT(*) DESC, activity
			LIMIT 1`
		if err := r.db.GetContext(ctx, &top, topQuery, userID); err == nil {
			stats.TopActivity = &top
		}
	}
	return &stats, nil
}
