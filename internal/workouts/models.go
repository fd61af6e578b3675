// internal/workouts/models.go

package workouts

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Exercise is one entry in a workout plan
type Exercise struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Sets        int    `json:"sets,omitempty" validate:"omitempty,min=1,max=20"`
	Reps        int    `json:"reps,omitempty" validate:"omitempty,min=1,max=200"`
	DurationSec int    `json:"duration_sec,omitempty" validate:"omitempty,min=1,max=7200"`
	RestSec     int    `json:"rest_sec,omitempty" validate:"omitempty,max=600"`
	Notes       string `json:"notes,omitempty" validate:"omitempty,max=300"`
}

// ExerciseList is the JSONB column type for a plan's exercises
type ExerciseList []Exercise

func (l *ExerciseList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return nil
	}
}

func (l ExerciseList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]Exercise{})
	}
	return json.Marshal(l)
}

// Plan is a reusable workout template owned by a user
type Plan struct {
	ID          int64        `json:"id" db:"id"`
	UserID      int64        `json:"user_id" db:"user_id"`
	Name        string       `json:"name" db:"name"`
	Description *string      `json:"description,omitempty" db:"description"`
	Difficulty  string       `json:"difficulty" db:"difficulty"`
	DurationMin int          `json:"duration_min" db:"duration_min"`
	Exercises   ExerciseList `json:"exercises" db:"exercises"`
	IsPublic    bool         `json:"is_public" db:"is_public"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// Session is a completed workout, optionally linked to a plan
type Session struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	PlanID         *int64    `json:"plan_id,omitempty" db:"plan_id"`
	Activity       string    `json:"activity" db:"activity"`
	DurationMin    int       `json:"duration_min" db:"duration_min"`
	CaloriesBurned *int      `json:"calories_burned,omitempty" db:"calories_burned"`
	Notes          *string   `json:"notes,omitempty" db:"notes"`
	PerformedAt    time.Time `json:"performed_at" db:"performed_at"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// CreatePlanInput is the plan creation payload
type CreatePlanInput struct {
	Name        string     `json:"name" validate:"required,min=1,max=100"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=1000"`
	Difficulty  string     `json:"difficulty" validate:"required,oneof=beginner intermediate advanced professional"`
	DurationMin int        `json:"duration_min" validate:"required,min=1,max=600"`
	Exercises   []Exercise `json:"exercises" validate:"required,min=1,max=50,dive"`
	IsPublic    bool       `json:"is_public"`
}

// UpdatePlanInput is the partial plan update payload
type UpdatePlanInput struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=1000"`
	Difficulty  *string    `json:"difficulty,omitempty" validate:"omitempty,oneof=beginner intermediate advanced professional"`
	DurationMin *int       `json:"duration_min,omitempty" validate:"omitempty,min=1,max=600"`
	Exercises   []Exercise `json:"exercises,omitempty" validate:"omitempty,min=1,max=50,dive"`
	IsPublic    *bool      `json:"is_public,omitempty"`
}

// LogSessionInput records a completed workout
type LogSessionInput struct {
	PlanID         *int64     `json:"plan_id,omitempty" validate:"omitempty,gt=0"`
	Activity       string     `json:"activity" validate:"required,min=1,max=100"`
	DurationMin    int        `json:"duration_min" validate:"required,min=1,max=600"`
	CaloriesBurned *int       `json:"calories_burned,omitempty" validate:"omitempty,min=1,max=10000"`
	Notes          *string    `json:"notes,omitempty" validate:"omitempty,max=500"`
	PerformedAt    *time.Time `json:"performed_at,omitempty"`
}

// UserStats aggregates a user's workout history
type UserStats struct {
	TotalSessions    int     `json:"total_sessions"`
	TotalMinutes     int     `json:"total_minutes"`
	TotalCalories    int     `json:"total_calories"`
	SessionsThisWeek int     `json:"sessions_this_week"`
	AvgDurationMin   float64 `json:"avg_duration_min"`
	TopActivity      *string `json:"top_activity,omitempty"`
}
