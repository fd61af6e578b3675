// internal/buddies/dto.go

package buddies

// SearchParams is the typed filter set for buddy search. Zero values mean
// "no constraint" for that dimension.
type SearchParams struct {
	FitnessLevel string   `json:"fitness_level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced professional"`
	FitnessGoal  string   `json:"fitness_goal,omitempty"`
	FitnessTags  []string `json:"fitness_tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
	AgeMin       int      `json:"age_min,omitempty" validate:"omitempty,min=13,max=120"`
	AgeMax       int      `json:"age_max,omitempty" validate:"omitempty,min=13,max=120"`
	MaxDistance  float64  `json:"max_distance,omitempty" validate:"omitempty,gt=0,max=500"`
	Skip         int      `json:"skip,omitempty" validate:"omitempty,min=0"`
	Limit        int      `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
}

// SendRequestInput is the create-request payload
type SendRequestInput struct {
	TargetID          int64       `json:"target_id" validate:"required,gt=0"`
	Message           string      `json:"message" validate:"omitempty,max=500"`
	Preferences       Preferences `json:"workout_preferences"`
	PreferredTime     *string     `json:"preferred_time,omitempty" validate:"omitempty,max=100"`
	PreferredLocation *string     `json:"preferred_location,omitempty" validate:"omitempty,max=200"`
}

// RespondInput carries the accept/reject decision for a pending request
type RespondInput struct {
	Accept  bool   `json:"accept"`
	Message string `json:"message" validate:"omitempty,max=500"`
}

// UpdateRelationshipInput mutates the status of an existing relationship
type UpdateRelationshipInput struct {
	Status string `json:"status" validate:"required,oneof=active paused ended"`
}

// RateBuddyInput records a workout-partner rating
type RateBuddyInput struct {
	Rating float64 `json:"rating" validate:"required,min=1,max=5"`
}

// RecommendationsResponse wraps a ranked candidate list
type RecommendationsResponse struct {
	Matches []*MatchCandidate `json:"matches"`
	Total   int               `json:"total"`
	Skip    int               `json:"skip"`
	Limit   int               `json:"limit"`
}

// RequestListResponse wraps sent or received requests
type RequestListResponse struct {
	Requests []*BuddyRequest `json:"requests"`
	Total    int             `json:"total"`
}

// RelationshipListResponse wraps a user's buddy list
type RelationshipListResponse struct {
	Buddies []*BuddyRelationship `json:"buddies"`
	Total   int                  `json:"total"`
}
