// internal/buddies/models.go

package buddies

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// Request lifecycle states. A pending request becomes accepted or rejected
// exactly once, or expires when its deadline passes.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
	RequestExpired  = "expired"
)

// Relationship lifecycle states. Ended relationships are retained for history.
const (
	RelationshipActive = "active"
	RelationshipPaused = "paused"
	RelationshipEnded  = "ended"
)

// Fitness levels in ascending order of experience
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
	LevelProfessional = "professional"
)

// fitnessLevelRank maps levels to ordinals for adjacency comparison
var fitnessLevelRank = map[string]int{
	LevelBeginner:     1,
	LevelIntermediate: 2,
	LevelAdvanced:     3,
	LevelProfessional: 4,
}

// Profile is the read-only matching view of a user. The matching core
// never mutates it; it is owned by the profile subsystem.
type Profile struct {
	UserID       int64          `json:"user_id" db:"user_id"`
	Nickname     string         `json:"nickname" db:"nickname"`
	Avatar       *string        `json:"avatar,omitempty" db:"avatar"`
	Bio          *string        `json:"bio,omitempty" db:"bio"`
	Age          *int           `json:"age,omitempty" db:"age"`
	FitnessLevel *string        `json:"fitness_level,omitempty" db:"fitness_level"`
	FitnessTags  pq.StringArray `json:"fitness_tags" db:"fitness_tags"`
	FitnessGoal  *string        `json:"fitness_goal,omitempty" db:"fitness_goal"`
	Latitude     *float64       `json:"latitude,omitempty" db:"latitude"`
	Longitude    *float64       `json:"longitude,omitempty" db:"longitude"`
	IsVerified   bool           `json:"is_verified" db:"is_verified"`
}

// HasLocation reports whether both coordinates are set
func (p *Profile) HasLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// Preferences is the typed workout-preference payload stored on requests
// and relationships
type Preferences struct {
	Interests []string `json:"interests,omitempty"`
	Goal      string   `json:"goal,omitempty"`
	Level     string   `json:"level,omitempty"`
	Schedule  string   `json:"schedule,omitempty"`
}

// Scan implements sql.Scanner so Preferences can be read from JSONB
func (p *Preferences) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return nil
	}
}

// Value implements driver.Valuer so Preferences can be written to JSONB
func (p Preferences) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// BuddyRequest is a proposal from one user to another to become workout buddies.
// At most one pending request may exist per ordered (requester, target) pair.
type BuddyRequest struct {
	ID                int64       `json:"id" db:"id"`
	RequesterID       int64       `json:"requester_id" db:"requester_id"`
	TargetID          int64       `json:"target_id" db:"target_id"`
	Status            string      `json:"status" db:"status"`
	RequestMessage    string      `json:"request_message" db:"request_message"`
	ResponseMessage   *string     `json:"response_message,omitempty" db:"response_message"`
	Preferences       Preferences `json:"workout_preferences" db:"workout_preferences"`
	PreferredTime     *string     `json:"preferred_time,omitempty" db:"preferred_time"`
	PreferredLocation *string     `json:"preferred_location,omitempty" db:"preferred_location"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
	RespondedAt       *time.Time  `json:"responded_at,omitempty" db:"responded_at"`
	ExpiresAt         time.Time   `json:"expires_at" db:"expires_at"`

	// Joined fields
	Requester *Profile `json:"requester,omitempty"`
	Target    *Profile `json:"target,omitempty"`
}

// IsExpired checks the expiry deadline. Expiry is lazy: the stored status
// stays "pending" until a read or write path observes the deadline, so
// every consumer must call this rather than trust Status alone.
func (r *BuddyRequest) IsExpired(now time.Time) bool {
	return r.Status == RequestPending && now.After(r.ExpiresAt)
}

// EffectiveStatus resolves the lazy-expiry view of the request
func (r *BuddyRequest) EffectiveStatus(now time.Time) string {
	if r.IsExpired(now) {
		return RequestExpired
	}
	return r.Status
}

// BuddyRelationship is an accepted, ongoing pairing. The pair is stored as
// an ordered (user_id, buddy_id) tuple but is logically unordered: at most
// one active relationship may exist per unordered pair.
type BuddyRelationship struct {
	ID              int64          `json:"id" db:"id"`
	UserID          int64          `json:"user_id" db:"user_id"`
	BuddyID         int64          `json:"buddy_id" db:"buddy_id"`
	Status          string         `json:"status" db:"status"`
	MatchScore      int            `json:"match_score" db:"match_score"`
	MatchReasons    pq.StringArray `json:"match_reasons" db:"match_reasons"`
	Preferences     Preferences    `json:"workout_preferences" db:"workout_preferences"`
	TotalWorkouts   int            `json:"total_workouts" db:"total_workouts"`
	Rating          float64        `json:"rating" db:"rating"`
	LastInteraction *time.Time     `json:"last_interaction,omitempty" db:"last_interaction"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`

	// Joined fields
	Buddy *Profile `json:"buddy,omitempty"`
}

// OtherMemberID returns the counterpart of userID in the pair
func (rel *BuddyRelationship) OtherMemberID(userID int64) int64 {
	if rel.UserID == userID {
		return rel.BuddyID
	}
	return rel.UserID
}

// MatchCandidate is an ephemeral scored recommendation. It lives only for
// the duration of a single recommendation call and is never persisted.
type MatchCandidate struct {
	Profile     *Profile    `json:"user"`
	Score       int         `json:"match_score"`
	Reasons     []string    `json:"match_reasons"`
	Preferences Preferences `json:"workout_preferences"`
	Distance    *float64    `json:"distance,omitempty"`
}

// Compatibility is the per-dimension breakdown shown on the match-info view
type Compatibility struct {
	AgeCompatible   bool `json:"age_compatibility"`
	LevelCompatible bool `json:"level_compatibility"`
	GoalCompatible  bool `json:"goal_compatibility"`
	InterestOverlap int  `json:"interest_overlap"`
}

// MatchInfo is the detailed pairwise view between two users
type MatchInfo struct {
	Profile             *Profile      `json:"user"`
	Score               int           `json:"match_score"`
	Reasons             []string      `json:"match_reasons"`
	Preferences         Preferences   `json:"workout_preferences"`
	Compatibility       Compatibility `json:"compatibility"`
	SuggestedActivities []string      `json:"suggested_activities"`
}

// Stats aggregates a user's buddy history
type Stats struct {
	TotalBuddies          int     `json:"total_buddies"`
	ActiveBuddies         int     `json:"active_buddies"`
	TotalRequestsSent     int     `json:"total_requests_sent"`
	TotalRequestsReceived int     `json:"total_requests_received"`
	AcceptedRequests      int     `json:"accepted_requests"`
	RejectedRequests      int     `json:"rejected_requests"`
	TotalWorkouts         int     `json:"total_workouts"`
	AverageRating         float64 `json:"average_rating"`
	MatchSuccessRate      float64 `json:"match_success_rate"`
}
