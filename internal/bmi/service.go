// internal/bmi/service.go

package bmi

import (
	"context"
	"errors"
	"math"
	"time"
)

var ErrNoRecords = errors.New("no BMI records found")

// WHO adult BMI category boundaries
const (
	CategoryUnderweight = "underweight"
	CategoryNormal      = "normal"
	CategoryOverweight  = "overweight"
	CategoryObese       = "obese"

	underweightUpper = 18.5
	normalUpper      = 25.0
	overweightUpper  = 30.0
)

var categoryAdvice = map[string]string{
	CategoryUnderweight: "You are below the healthy weight range. Consider a calorie surplus with strength training, and consult a professional if weight gain stalls.",
	CategoryNormal:      "You are within the healthy weight range. Keep up your current mix of activity and balanced eating.",
	CategoryOverweight:  "You are above the healthy weight range. A moderate calorie deficit combined with regular cardio and strength work is a sustainable way back.",
	CategoryObese:       "You are well above the healthy weight range. Focus on gradual, consistent changes and consider working with a healthcare professional.",
}

// Service defines BMI tracking business logic
type Service interface {
	Calculate(ctx context.Context, input *CalculateInput) *Result
	Record(ctx context.Context, userID int64, input *CalculateInput) (*Record, *Result, error)
	History(ctx context.Context, userID int64, limit int) ([]*Record, error)
	Latest(ctx context.Context, userID int64) (*Record, error)
	GetTrend(ctx context.Context, userID int64) (*Trend, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates the BMI service
func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

// Compute returns the BMI value rounded to one decimal
func Compute(heightCm, weightKg float64) float64 {
	heightM := heightCm / 100
	return math.Round(weightKg/(heightM*heightM)*10) / 10
}

// Categorize maps a BMI value to its WHO category
func Categorize(bmi float64) string {
	switch {
	case bmi < underweightUpper:
		return CategoryUnderweight
	case bmi < normalUpper:
		return CategoryNormal
	case bmi < overweightUpper:
		return CategoryOverweight
	default:
		return CategoryObese
	}
}

func (s *service) Calculate(_ context.Context, input *CalculateInput) *Result {
	bmi := Compute(input.HeightCm, input.WeightKg)
	category := Categorize(bmi)
	heightM := input.HeightCm / 100

	return &Result{
		BMI:      bmi,
		Category: category,
		HealthyRangeKg: [2]float64{
			math.Round(underweightUpper*heightM*heightM*10) / 10,
			math.Round(normalUpper*heightM*heightM*10) / 10,
		},
		Advice: categoryAdvice[category],
	}
}

func (s *service) Record(ctx context.Context, userID int64, input *CalculateInput) (*Record, *Result, error) {
	result := s.Calculate(ctx, input)

	record := &Record{
		UserID:    userID,
		HeightCm:  input.HeightCm,
		WeightKg:  input.WeightKg,
		BMI:       result.BMI,
		Category:  result.Category,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, nil, err
	}
	return record, result, nil
}

func (s *service) History(ctx context.Context, userID int64, limit int) ([]*Record, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *service) Latest(ctx context.Context, userID int64) (*Record, error) {
	return s.repo.Latest(ctx, userID)
}

// GetTrend compares the two most recent measurements
func (s *service) GetTrend(ctx context.Context, userID int64) (*Trend, error) {
	records, err := s.repo.ListByUser(ctx, userID, 2)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	trend := &Trend{
		Current:     records[0],
		Direction:   "steady",
		RecordsUsed: len(records),
	}
	if len(records) > 1 {
		trend.Previous = records[1]
		change := math.Round((records[0].BMI-records[1].BMI)*10) / 10
		trend.BMIChange = &change
		if change > 0 {
			trend.Direction = "up"
		} else if change < 0 {
			trend.Direction = "down"
		}
	}
	return trend, nil
}
