// internal/ai/coach.go

package ai

import (
	"context"
	"fmt"
	"strings"
)

// UserContext is the slice of profile data the prompts are built from
type UserContext struct {
	Age          *int
	Gender       *string
	HeightCm     *float64
	WeightKg     *float64
	FitnessLevel *string
	FitnessTags  []string
	FitnessGoal  *string
}

// ProfileSource supplies the fitness context for a user
type ProfileSource interface {
	FitnessContext(ctx context.Context, userID int64) (*UserContext, error)
}

// CoachRequest is a question for the AI workout coach
type CoachRequest struct {
	Question string `json:"question" validate:"required,min=3,max=2000"`
}

// Service answers coaching and nutrition questions with the user's
// profile folded into the prompt
type Service struct {
	manager  *Manager
	profiles ProfileSource
}

// NewService creates the AI advice service
func NewService(manager *Manager, profiles ProfileSource) *Service {
	return &Service{manager: manager, profiles: profiles}
}

// AskCoach answers a training question
func (s *Service) AskCoach(ctx context.Context, userID int64, question string) (*Completion, error) {
	user, err := s.profiles.FitnessContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	messages := []ChatMessage{
		{
			Role: "system",
			Content: "You are an experienced personal fitness coach. Give " +
				"specific, safe, actionable training advice tailored to the " +
				"user described below. Keep answers under 300 words.\n\n" + describeUser(user),
		},
		{Role: "user", Content: question},
	}

	return s.manager.Chat(ctx, messages, CallOptions{MaxTokens: 600, Temperature: 0.7}), nil
}

// WeeklyPlan generates a one-week training outline for the user
func (s *Service) WeeklyPlan(ctx context.Context, userID int64) (*Completion, error) {
	user, err := s.profiles.FitnessContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	messages := []ChatMessage{
		{
			Role: "system",
			Content: "You are an experienced personal fitness coach. Produce a " +
				"seven day training plan with one line per day, matched to the " +
				"user described below.\n\n" + describeUser(user),
		},
		{Role: "user", Content: "Plan my training week."},
	}

	return s.manager.Chat(ctx, messages, CallOptions{MaxTokens: 800, Temperature: 0.6}), nil
}

func describeUser(u *UserContext) string {
	var b strings.Builder
	b.WriteString("User profile:")
	if u.Age != nil {
		fmt.Fprintf(&b, "\n- Age: %d", *u.Age)
	}
	if u.Gender != nil {
		fmt.Fprintf(&b, "\n- Gender: %s", *u.Gender)
	}
	if u.HeightCm != nil {
		fmt.Fprintf(&b, "\n- Height: %.0f cm", *u.HeightCm)
	}
	if u.WeightKg != nil {
		fmt.Fprintf(&b, "\n- Weight: %.1f kg", *u.WeightKg)
	}
	if u.FitnessLevel != nil {
		fmt.Fprintf(&b, "\n- Fitness level: %s", *u.FitnessLevel)
	}
	if len(u.FitnessTags) > 0 {
		fmt.Fprintf(&b, "\n- Preferred activities: %s", strings.Join(u.FitnessTags, ", "))
	}
	if u.FitnessGoal != nil {
		fmt.Fprintf(&b, "\n- Goal: %s", *u.FitnessGoal)
	}
	return b.String()
}
