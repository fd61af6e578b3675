// internal/bmi/models.go

package bmi

import "time"

// Record is a stored BMI measurement
type Record struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	HeightCm  float64   `json:"height_cm" db:"height_cm"`
	WeightKg  float64   `json:"weight_kg" db:"weight_kg"`
	BMI       float64   `json:"bmi" db:"bmi"`
	Category  string    `json:"category" db:"category"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CalculateInput is a measurement submission
type CalculateInput struct {
	HeightCm float64 `json:"height_cm" validate:"required,gt=0,lt=300"`
	WeightKg float64 `json:"weight_kg" validate:"required,gt=0,lt=500"`
}

// Result is a computed measurement with guidance, returned whether or
// not the caller chose to store it
type Result struct {
	BMI            float64    `json:"bmi"`
	Category       string     `json:"category"`
	HealthyRangeKg [2]float64 `json:"healthy_weight_range_kg"`
	Advice         string     `json:"advice"`
}

// Trend describes how the latest measurement compares to the previous one
type Trend struct {
	Current     *Record  `json:"current"`
	Previous    *Record  `json:"previous,omitempty"`
	BMIChange   *float64 `json:"bmi_change,omitempty"`
	Direction   string   `json:"direction"`
	RecordsUsed int      `json:"records_used"`
}
