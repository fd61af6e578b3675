// internal/ai/nutritionist.go

package ai

import "context"

// NutritionRequest is a question for the AI nutritionist
type NutritionRequest struct {
	Question           string   `json:"question" validate:"required,min=3,max=2000"`
	DietaryPreferences []string `json:"dietary_preferences,omitempty" validate:"omitempty,max=10,dive,min=1,max=50"`
}

// AskNutritionist answers a diet question with the user's profile and
// stated dietary preferences in the prompt
func (s *Service) AskNutritionist(ctx context.Context, userID int64, req *NutritionRequest) (*Completion, error) {
	user, err := s.profiles.FitnessContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	system := "You are a registered nutritionist. Give practical, safe dietary " +
		"advice tailored to the user described below. Never prescribe extreme " +
		"diets. Keep answers under 300 words.\n\n" + describeUser(user)
	if len(req.DietaryPreferences) > 0 {
		system += "\n- Dietary preferences: "
		for i, p := range req.DietaryPreferences {
			if i > 0 {
				system += ", "
			}
			system += p
		}
	}

	messages := []ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: req.Question},
	}

	return s.manager.Chat(ctx, messages, CallOptions{MaxTokens: 600, Temperature: 0.7}), nil
}
