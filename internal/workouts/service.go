// internal/workouts/service.go

package workouts

import (
	"context"
	"errors"
	"time"
)

var (
	ErrPlanNotFound = errors.New("workout plan not found")
	ErrNotPlanOwner = errors.New("user does not own this plan")
)

// Service defines workout business logic
type Service interface {
	CreatePlan(ctx context.Context, userID int64, input *CreatePlanInput) (*Plan, error)
	GetPlan(ctx context.Context, userID, planID int64) (*Plan, error)
	ListMyPlans(ctx context.Context, userID int64) ([]*Plan, error)
	BrowsePublicPlans(ctx context.Context, difficulty string, limit int) ([]*Plan, error)
	UpdatePlan(ctx context.Context, userID, planID int64, input *UpdatePlanInput) (*Plan, error)
	DeletePlan(ctx context.Context, userID, planID int64) error

	LogSession(ctx context.Context, userID int64, input *LogSessionInput) (*Session, error)
	ListSessions(ctx context.Context, userID int64, limit int) ([]*Session, error)
	GetStats(ctx context.Context, userID int64) (*UserStats, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates the workout service
func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) CreatePlan(ctx context.Context, userID int64, input *CreatePlanInput) (*Plan, error) {
	plan := &Plan{
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		Difficulty:  input.Difficulty,
		DurationMin: input.DurationMin,
		Exercises:   input.Exercises,
		IsPublic:    input.IsPublic,
		CreatedAt:   s.now(),
	}
	if err := s.repo.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// GetPlan returns a plan the user owns or any public plan
func (s *service) GetPlan(ctx context.Context, userID, planID int64) (*Plan, error) {
	plan, err := s.repo.GetPlanByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID && !plan.IsPublic {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

func (s *service) ListMyPlans(ctx context.Context, userID int64) ([]*Plan, error) {
	return s.repo.ListPlansByUser(ctx, userID)
}

func (s *service) BrowsePublicPlans(ctx context.Context, difficulty string, limit int) ([]*Plan, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListPublicPlans(ctx, difficulty, limit)
}

func (s *service) UpdatePlan(ctx context.Context, userID, planID int64, input *UpdatePlanInput) (*Plan, error) {
	plan, err := s.repo.GetPlanByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrNotPlanOwner
	}

	if input.Name != nil {
		plan.Name = *input.Name
	}
	if input.Description != nil {
		plan.Description = input.Description
	}
	if input.Difficulty != nil {
		plan.Difficulty = *input.Difficulty
	}
	if input.DurationMin != nil {
		plan.DurationMin = *input.DurationMin
	}
	if input.Exercises != nil {
		plan.Exercises = input.Exercises
	}
	if input.IsPublic != nil {
		plan.IsPublic = *input.IsPublic
	}

	if err := s.repo.UpdatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *service) DeletePlan(ctx context.Context, userID, planID int64) error {
	ok, err := s.repo.DeletePlan(ctx, planID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPlanNotFound
	}
	return nil
}

func (s *service) LogSession(ctx context.Context, userID int64, input *LogSessionInput) (*Session, error) {
	now := s.now()

	// A linked plan must be visible to the user
	if input.PlanID != nil {
		if _, err := s.GetPlan(ctx, userID, *input.PlanID); err != nil {
			return nil, err
		}
	}

	performedAt := now
	if input.PerformedAt != nil {
		performedAt = *input.PerformedAt
	}

	session := &Session{
		UserID:         userID,
		PlanID:         input.PlanID,
		Activity:       input.Activity,
		DurationMin:    input.DurationMin,
		CaloriesBurned: input.CaloriesBurned,
		Notes:          input.Notes,
		PerformedAt:    performedAt,
		CreatedAt:      now,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *service) ListSessions(ctx context.Context, userID int64, limit int) ([]*Session, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	return s.repo.ListSessionsByUser(ctx, userID, limit)
}

func (s *service) GetStats(ctx context.Context, userID int64) (*UserStats, error) {
	weekStart := s.now().AddDate(0, 0, -7)
	return s.repo.GetUserStats(ctx, userID, weekStart)
}
