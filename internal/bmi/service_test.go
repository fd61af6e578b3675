// internal/bmi/service_test.go

package bmi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	records []*Record
	nextID  int64
}

func (r *fakeRepo) Create(_ context.Context, record *Record) error {
	r.nextID++
	record.ID = r.nextID
	// newest first, matching the SQL ordering
	r.records = append([]*Record{record}, r.records...)
	return nil
}

func (r *fakeRepo) ListByUser(_ context.Context, userID int64, limit int) ([]*Record, error) {
	var out []*Record
	for _, rec := range r.records {
		if rec.UserID == userID && len(out) < limit {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRepo) Latest(_ context.Context, userID int64) (*Record, error) {
	for _, rec := range r.records {
		if rec.UserID == userID {
			return rec, nil
		}
	}
	return nil, ErrNoRecords
}

func TestCompute(t *testing.T) {
	tests := []struct {
		heightCm float64
		weightKg float64
		want     float64
	}{
		{180, 75, 23.1},
		{160, 45, 17.6},
		{170, 95, 32.9},
		{175, 80, 26.1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Compute(tt.heightCm, tt.weightKg))
	}
}

func TestCategorize(t *testing.T) {
	assert.Equal(t, CategoryUnderweight, Categorize(18.4))
	assert.Equal(t, CategoryNormal, Categorize(18.5))
	assert.Equal(t, CategoryNormal, Categorize(24.9))
	assert.Equal(t, CategoryOverweight, Categorize(25.0))
	assert.Equal(t, CategoryOverweight, Categorize(29.9))
	assert.Equal(t, CategoryObese, Categorize(30.0))
}

func TestCalculateIncludesHealthyRangeAndAdvice(t *testing.T) {
	svc := NewService(&fakeRepo{})

	result := svc.Calculate(context.Background(), &CalculateInput{HeightCm: 180, WeightKg: 75})

	assert.Equal(t, 23.1, result.BMI)
	assert.Equal(t, CategoryNormal, result.Category)
	assert.Equal(t, 59.9, result.HealthyRangeKg[0])
	assert.Equal(t, 81.0, result.HealthyRangeKg[1])
	assert.NotEmpty(t, result.Advice)
}

func TestRecordStoresMeasurement(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	record, result, err := svc.Record(context.Background(), 7, &CalculateInput{HeightCm: 170, WeightKg: 95})

	require.NoError(t, err)
	assert.Equal(t, int64(7), record.UserID)
	assert.Equal(t, 32.9, record.BMI)
	assert.Equal(t, CategoryObese, record.Category)
	assert.Equal(t, record.BMI, result.BMI)
	assert.Len(t, repo.records, 1)
}

func TestGetTrend(t *testing.T) {
	ctx := context.Background()

	t.Run("no records", func(t *testing.T) {
		svc := NewService(&fakeRepo{})
		_, err := svc.GetTrend(ctx, 1)
		assert.ErrorIs(t, err, ErrNoRecords)
	})

	t.Run("single record is steady", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo)
		_, _, err := svc.Record(ctx, 1, &CalculateInput{HeightCm: 180, WeightKg: 75})
		require.NoError(t, err)

		trend, err := svc.GetTrend(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "steady", trend.Direction)
		assert.Nil(t, trend.BMIChange)
		assert.Equal(t, 1, trend.RecordsUsed)
	})

	t.Run("weight loss trends down", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo)
		_, _, err := svc.Record(ctx, 1, &CalculateInput{HeightCm: 180, WeightKg: 85})
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
		_, _, err = svc.Record(ctx, 1, &CalculateInput{HeightCm: 180, WeightKg: 80})
		require.NoError(t, err)

		trend, err := svc.GetTrend(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "down", trend.Direction)
		require.NotNil(t, trend.BMIChange)
		assert.Negative(t, *trend.BMIChange)
	})
}
