// internal/profile/models.go

package profile

import (
	"time"

	"github.com/lib/pq"
)

// UserProfile holds the fitness profile of a user. The matching and BMI
// subsystems read from this table.
type UserProfile struct {
	UserID       int64          `json:"user_id" db:"user_id"`
	Nickname     string         `json:"nickname" db:"nickname"`
	Avatar       *string        `json:"avatar,omitempty" db:"avatar"`
	Bio          *string        `json:"bio,omitempty" db:"bio"`
	Age          *int           `json:"age,omitempty" db:"age"`
	Gender       *string        `json:"gender,omitempty" db:"gender"`
	HeightCm     *float64       `json:"height_cm,omitempty" db:"height_cm"`
	WeightKg     *float64       `json:"weight_kg,omitempty" db:"weight_kg"`
	FitnessLevel *string        `json:"fitness_level,omitempty" db:"fitness_level"`
	FitnessTags  pq.StringArray `json:"fitness_tags" db:"fitness_tags"`
	FitnessGoal  *string        `json:"fitness_goal,omitempty" db:"fitness_goal"`
	Latitude     *float64       `json:"latitude,omitempty" db:"latitude"`
	Longitude    *float64       `json:"longitude,omitempty" db:"longitude"`
	City         *string        `json:"city,omitempty" db:"city"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// SetupProfileInput is the first-time profile payload
type SetupProfileInput struct {
	Nickname     string   `json:"nickname" validate:"required,min=2,max=50"`
	Bio          *string  `json:"bio,omitempty" validate:"omitempty,max=500"`
	Age          *int     `json:"age,omitempty" validate:"omitempty,min=13,max=120"`
	Gender       *string  `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	HeightCm     *float64 `json:"height_cm,omitempty" validate:"omitempty,gt=0,lt=300"`
	WeightKg     *float64 `json:"weight_kg,omitempty" validate:"omitempty,gt=0,lt=500"`
	FitnessLevel *string  `json:"fitness_level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced professional"`
	FitnessTags  []string `json:"fitness_tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
	FitnessGoal  *string  `json:"fitness_goal,omitempty" validate:"omitempty,max=100"`
}

// UpdateProfileInput is the partial-update payload; nil fields are untouched
type UpdateProfileInput struct {
	Nickname     *string  `json:"nickname,omitempty" validate:"omitempty,min=2,max=50"`
	Bio          *string  `json:"bio,omitempty" validate:"omitempty,max=500"`
	Age          *int     `json:"age,omitempty" validate:"omitempty,min=13,max=120"`
	Gender       *string  `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	HeightCm     *float64 `json:"height_cm,omitempty" validate:"omitempty,gt=0,lt=300"`
	WeightKg     *float64 `json:"weight_kg,omitempty" validate:"omitempty,gt=0,lt=500"`
	FitnessLevel *string  `json:"fitness_level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced professional"`
	FitnessTags  []string `json:"fitness_tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
	FitnessGoal  *string  `json:"fitness_goal,omitempty" validate:"omitempty,max=100"`
}

// UpdateLocationInput sets the coordinates used for nearby matching
type UpdateLocationInput struct {
	Latitude  float64 `json:"latitude" validate:"required,latitude"`
	Longitude float64 `json:"longitude" validate:"required,longitude"`
	City      *string `json:"city,omitempty" validate:"omitempty,max=100"`
}

// Completion reports how filled-in a profile is
type Completion struct {
	Percentage    int      `json:"percentage"`
	MissingFields []string `json:"missing_fields"`
}
