// internal/buddies/service.go

package buddies

import (
	"context"
	"errors"
	"log"
	"time"
)

var (
	ErrProfileNotFound       = errors.New("profile not found")
	ErrRequestNotFound       = errors.New("buddy request not found")
	ErrRelationshipNotFound  = errors.New("buddy relationship not found")
	ErrCannotRequestSelf     = errors.New("cannot send a buddy request to yourself")
	ErrRequestAlreadyPending = errors.New("a buddy request is already pending between these users")
	ErrAlreadyBuddies        = errors.New("users are already workout buddies")
	ErrRequestNotPending     = errors.New("buddy request is no longer pending")
	ErrNotRequestTarget      = errors.New("only the request target can respond")
	ErrNotRelationshipMember = errors.New("user is not part of this relationship")
)

// Notifier delivers buddy lifecycle notifications. Implementations must
// tolerate delivery failure; the matching flow never blocks on it.
type Notifier interface {
	BuddyRequestReceived(ctx context.Context, targetID int64, requester *Profile)
	BuddyRequestAccepted(ctx context.Context, requesterID int64, accepter *Profile)
}

// Config holds the matching knobs
type Config struct {
	RequestExpiry       time.Duration
	RecommendationLimit int
	NearbyDefaultRadius float64
	CandidatePoolSize   int
}

// DefaultConfig returns the matching defaults used outside tests
func DefaultConfig() *Config {
	return &Config{
		RequestExpiry:       7 * 24 * time.Hour,
		RecommendationLimit: 50,
		NearbyDefaultRadius: 5.0,
		CandidatePoolSize:   500,
	}
}

// Service defines buddy matching business logic
type Service interface {
	GetRecommendations(ctx context.Context, userID int64, params SearchParams) (*RecommendationsResponse, error)
	GetNearby(ctx context.Context, userID int64, radiusKm float64, limit int) ([]*MatchCandidate, error)
	GetSimilar(ctx context.Context, userID int64, limit int) ([]*MatchCandidate, error)
	GetMatchInfo(ctx context.Context, userID, otherID int64) (*MatchInfo, error)

	SendRequest(ctx context.Context, userID int64, input *SendRequestInput) (*BuddyRequest, error)
	RespondToRequest(ctx context.Context, userID, requestID int64, input *RespondInput) (*BuddyRequest, error)
	CancelRequest(ctx context.Context, userID, requestID int64) error
	ListSentRequests(ctx context.Context, userID int64, status string) ([]*BuddyRequest, error)
	ListReceivedRequests(ctx context.Context, userID int64, status string) ([]*BuddyRequest, error)

	ListBuddies(ctx context.Context, userID int64, status string) ([]*BuddyRelationship, error)
	UpdateRelationship(ctx context.Context, userID, relationshipID int64, input *UpdateRelationshipInput) (*BuddyRelationship, error)
	RecordWorkout(ctx context.Context, userID, relationshipID int64) (*BuddyRelationship, error)
	RateBuddy(ctx context.Context, userID, relationshipID int64, rating float64) error

	GetStats(ctx context.Context, userID int64) (*Stats, error)
}

type service struct {
	repo     Repository
	notifier Notifier
	config   *Config
	now      func() time.Time
}

// NewService creates the buddy matching service. notifier may be nil.
func NewService(repo Repository, notifier Notifier, config *Config) Service {
	if config == nil {
		config = DefaultConfig()
	}
	return &service{
		repo:     repo,
		notifier: notifier,
		config:   config,
		now:      time.Now,
	}
}

func (s *service) GetRecommendations(ctx context.Context, userID int64, params SearchParams) (*RecommendationsResponse, error) {
	if params.Limit <= 0 || params.Limit > s.config.RecommendationLimit {
		params.Limit = s.config.RecommendationLimit
	}

	viewer, pool, err := s.candidatePool(ctx, userID)
	if err != nil {
		return nil, err
	}

	matches := Recommend(viewer, pool, params)
	RecordRecommendation(len(matches))
	return &RecommendationsResponse{
		Matches: matches,
		Total:   len(matches),
		Skip:    params.Skip,
		Limit:   params.Limit,
	}, nil
}

func (s *service) GetNearby(ctx context.Context, userID int64, radiusKm float64, limit int) ([]*MatchCandidate, error) {
	if radiusKm <= 0 {
		radiusKm = s.config.NearbyDefaultRadius
	}
	if limit <= 0 || limit > s.config.RecommendationLimit {
		limit = s.config.RecommendationLimit
	}

	viewer, pool, err := s.candidatePool(ctx, userID)
	if err != nil {
		return nil, err
	}
	return RecommendNearby(viewer, pool, radiusKm, limit), nil
}

func (s *service) GetSimilar(ctx context.Context, userID int64, limit int) ([]*MatchCandidate, error) {
	if limit <= 0 || limit > s.config.RecommendationLimit {
		limit = s.config.RecommendationLimit
	}

	viewer, pool, err := s.candidatePool(ctx, userID)
	if err != nil {
		return nil, err
	}
	return RecommendSimilar(viewer, pool, limit), nil
}

func (s *service) GetMatchInfo(ctx context.Context, userID, otherID int64) (*MatchInfo, error) {
	viewer, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	other, err := s.repo.GetProfile(ctx, otherID)
	if err != nil {
		return nil, err
	}

	score, reasons := MatchScore(viewer, other)
	return &MatchInfo{
		Profile:             other,
		Score:               score,
		Reasons:             reasons,
		Compatibility:       CompatibilityOf(viewer, other),
		SuggestedActivities: SuggestedActivities(viewer, other),
	}, nil
}

func (s *service) SendRequest(ctx context.Context, userID int64, input *SendRequestInput) (*BuddyRequest, error) {
	if userID == input.TargetID {
		return nil, ErrCannotRequestSelf
	}
	now := s.now()

	// Target must exist and be visible
	if _, err := s.repo.GetProfile(ctx, input.TargetID); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetActiveRelationshipBetween(ctx, userID, input.TargetID); err == nil {
		return nil, ErrAlreadyBuddies
	} else if !errors.Is(err, ErrRelationshipNotFound) {
		return nil, err
	}

	pending, err := s.repo.HasPendingRequestBetween(ctx, userID, input.TargetID, now)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrRequestAlreadyPending
	}

	req := &BuddyRequest{
		RequesterID:       userID,
		TargetID:          input.TargetID,
		Status:            RequestPending,
		RequestMessage:    input.Message,
		Preferences:       input.Preferences,
		PreferredTime:     input.PreferredTime,
		PreferredLocation: input.PreferredLocation,
		CreatedAt:         now,
		ExpiresAt:         now.Add(s.config.RequestExpiry),
	}
	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}
	RecordRequestSent()

	if s.notifier != nil {
		if requester, err := s.repo.GetProfile(ctx, userID); err == nil {
			s.notifier.BuddyRequestReceived(ctx, input.TargetID, requester)
		} else {
			log.Printf("buddies: skipping request notification: %v", err)
		}
	}
	return req, nil
}

func (s *service) RespondToRequest(ctx context.Context, userID, requestID int64, input *RespondInput) (*BuddyRequest, error) {
	req, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.TargetID != userID {
		return nil, ErrNotRequestTarget
	}
	now := s.now()
	if req.EffectiveStatus(now) != RequestPending {
		return nil, ErrRequestNotPending
	}

	if !input.Accept {
		ok, err := s.repo.RejectRequest(ctx, requestID, input.Message, now)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrRequestNotPending
		}
		RecordRequestResponded(false)
		req.Status = RequestRejected
		req.ResponseMessage = &input.Message
		req.RespondedAt = &now
		return req, nil
	}

	// The relationship records the compatibility as of acceptance, not as
	// of when the request was sent
	requester, err := s.repo.GetProfile(ctx, req.RequesterID)
	if err != nil {
		return nil, err
	}
	target, err := s.repo.GetProfile(ctx, req.TargetID)
	if err != nil {
		return nil, err
	}
	score, reasons := MatchScore(requester, target)

	rel, err := s.repo.AcceptRequest(ctx, req, input.Message, score, reasons, now)
	if err != nil {
		return nil, err
	}
	RecordRequestResponded(true)
	RecordMatchScore(rel.MatchScore)

	if s.notifier != nil {
		s.notifier.BuddyRequestAccepted(ctx, req.RequesterID, target)
	}

	req.Status = RequestAccepted
	req.ResponseMessage = &input.Message
	req.RespondedAt = &now
	return req, nil
}

func (s *service) CancelRequest(ctx context.Context, userID, requestID int64) error {
	ok, err := s.repo.CancelRequest(ctx, requestID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRequestNotFound
	}
	return nil
}

func (s *service) ListSentRequests(ctx context.Context, userID int64, status string) ([]*BuddyRequest, error) {
	return s.repo.ListSentRequests(ctx, userID, status, s.now())
}

func (s *service) ListReceivedRequests(ctx context.Context, userID int64, status string) ([]*BuddyRequest, error) {
	return s.repo.ListReceivedRequests(ctx, userID, status, s.now())
}

func (s *service) ListBuddies(ctx context.Context, userID int64, status string) ([]*BuddyRelationship, error) {
	relationships, err := s.repo.ListRelationships(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	for _, rel := range relationships {
		if buddy, err := s.repo.GetProfile(ctx, rel.OtherMemberID(userID)); err == nil {
			rel.Buddy = buddy
		}
	}
	return relationships, nil
}

func (s *service) UpdateRelationship(ctx context.Context, userID, relationshipID int64, input *UpdateRelationshipInput) (*BuddyRelationship, error) {
	rel, err := s.repo.GetRelationshipByID(ctx, relationshipID)
	if err != nil {
		return nil, err
	}
	if rel.UserID != userID && rel.BuddyID != userID {
		return nil, ErrNotRelationshipMember
	}

	ok, err := s.repo.UpdateRelationshipStatus(ctx, relationshipID, userID, input.Status, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRelationshipNotFound
	}
	return s.repo.GetRelationshipByID(ctx, relationshipID)
}

func (s *service) RecordWorkout(ctx context.Context, userID, relationshipID int64) (*BuddyRelationship, error) {
	ok, err := s.repo.RecordWorkout(ctx, relationshipID, userID, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRelationshipNotFound
	}
	RecordBuddyWorkout()
	return s.repo.GetRelationshipByID(ctx, relationshipID)
}

func (s *service) RateBuddy(ctx context.Context, userID, relationshipID int64, rating float64) error {
	ok, err := s.repo.RateRelationship(ctx, relationshipID, userID, rating, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrRelationshipNotFound
	}
	return nil
}

func (s *service) GetStats(ctx context.Context, userID int64) (*Stats, error) {
	return s.repo.GetStats(ctx, userID)
}

// candidatePool loads the viewer profile and the scoring pool with the
// exclusion set already removed
func (s *service) candidatePool(ctx context.Context, userID int64) (*Profile, []*Profile, error) {
	viewer, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	excluded, err := s.repo.GetExcludedUserIDs(ctx, userID, s.now())
	if err != nil {
		return nil, nil, err
	}
	pool, err := s.repo.GetCandidateProfiles(ctx, excluded, s.config.CandidatePoolSize)
	if err != nil {
		return nil, nil, err
	}
	return viewer, pool, nil
}
