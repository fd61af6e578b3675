// internal/buddies/service_test.go

package buddies

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	profiles      map[int64]*Profile
	requests      map[int64]*BuddyRequest
	relationships map[int64]*BuddyRelationship
	nextID        int64
}

func newFakeRepo(profiles ...*Profile) *fakeRepo {
	r := &fakeRepo{
		profiles:      map[int64]*Profile{},
		requests:      map[int64]*BuddyRequest{},
		relationships: map[int64]*BuddyRelationship{},
		nextID:        1,
	}
	for _, p := range profiles {
		r.profiles[p.UserID] = p
	}
	return r
}

func (r *fakeRepo) GetProfile(_ context.Context, userID int64) (*Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

func (r *fakeRepo) GetCandidateProfiles(_ context.Context, excluded []int64, limit int) ([]*Profile, error) {
	skip := map[int64]bool{}
	for _, id := range excluded {
		skip[id] = true
	}
	var out []*Profile
	for _, p := range r.profiles {
		if !skip[p.UserID] && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetExcludedUserIDs(_ context.Context, userID int64, now time.Time) ([]int64, error) {
	ids := []int64{userID}
	for _, rel := range r.relationships {
		if rel.Status != RelationshipActive {
			continue
		}
		if rel.UserID == userID {
			ids = append(ids, rel.BuddyID)
		} else if rel.BuddyID == userID {
			ids = append(ids, rel.UserID)
		}
	}
	for _, req := range r.requests {
		if req.Status != RequestPending || now.After(req.ExpiresAt) {
			continue
		}
		if req.RequesterID == userID {
			ids = append(ids, req.TargetID)
		} else if req.TargetID == userID {
			ids = append(ids, req.RequesterID)
		}
	}
	return ids, nil
}

func (r *fakeRepo) CreateRequest(_ context.Context, req *BuddyRequest) error {
	req.ID = r.nextID
	r.nextID++
	r.requests[req.ID] = req
	return nil
}

func (r *fakeRepo) GetRequestByID(_ context.Context, id int64) (*BuddyRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, ErrRequestNotFound
	}
	return req, nil
}

func (r *fakeRepo) HasPendingRequestBetween(_ context.Context, a, b int64, now time.Time) (bool, error) {
	for _, req := range r.requests {
		between := (req.RequesterID == a && req.TargetID == b) || (req.RequesterID == b && req.TargetID == a)
		if between && req.Status == RequestPending && req.ExpiresAt.After(now) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) ListSentRequests(_ context.Context, userID int64, status string, now time.Time) ([]*BuddyRequest, error) {
	var out []*BuddyRequest
	for _, req := range r.requests {
		if req.RequesterID == userID && (status == "" || req.EffectiveStatus(now) == status) {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListReceivedRequests(_ context.Context, userID int64, status string, now time.Time) ([]*BuddyRequest, error) {
	var out []*BuddyRequest
	for _, req := range r.requests {
		if req.TargetID == userID && (status == "" || req.EffectiveStatus(now) == status) {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeRepo) RejectRequest(_ context.Context, requestID int64, message string, now time.Time) (bool, error) {
	req, ok := r.requests[requestID]
	if !ok || req.Status != RequestPending || !req.ExpiresAt.After(now) {
		return false, nil
	}
	req.Status = RequestRejected
	req.ResponseMessage = &message
	req.RespondedAt = &now
	return true, nil
}

func (r *fakeRepo) AcceptRequest(_ context.Context, req *BuddyRequest, message string, score int, reasons []string, now time.Time) (*BuddyRelationship, error) {
	stored, ok := r.requests[req.ID]
	if !ok || stored.Status != RequestPending || !stored.ExpiresAt.After(now) {
		return nil, ErrRequestNotPending
	}
	stored.Status = RequestAccepted
	stored.ResponseMessage = &message
	stored.RespondedAt = &now

	rel := &BuddyRelationship{
		ID:           r.nextID,
		UserID:       req.RequesterID,
		BuddyID:      req.TargetID,
		Status:       RelationshipActive,
		MatchScore:   score,
		MatchReasons: reasons,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.nextID++
	r.relationships[rel.ID] = rel
	return rel, nil
}

func (r *fakeRepo) CancelRequest(_ context.Context, requestID, requesterID int64) (bool, error) {
	req, ok := r.requests[requestID]
	if !ok || req.RequesterID != requesterID || req.Status != RequestPending {
		return false, nil
	}
	delete(r.requests, requestID)
	return true, nil
}

func (r *fakeRepo) GetRelationshipByID(_ context.Context, id int64) (*BuddyRelationship, error) {
	rel, ok := r.relationships[id]
	if !ok {
		return nil, ErrRelationshipNotFound
	}
	return rel, nil
}

func (r *fakeRepo) GetActiveRelationshipBetween(_ context.Context, a, b int64) (*BuddyRelationship, error) {
	for _, rel := range r.relationships {
		between := (rel.UserID == a && rel.BuddyID == b) || (rel.UserID == b && rel.BuddyID == a)
		if between && rel.Status == RelationshipActive {
			return rel, nil
		}
	}
	return nil, ErrRelationshipNotFound
}

func (r *fakeRepo) ListRelationships(_ context.Context, userID int64, status string) ([]*BuddyRelationship, error) {
	var out []*BuddyRelationship
	for _, rel := range r.relationships {
		if (rel.UserID == userID || rel.BuddyID == userID) && (status == "" || rel.Status == status) {
			out = append(out, rel)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateRelationshipStatus(_ context.Context, id, userID int64, status string, now time.Time) (bool, error) {
	rel, ok := r.relationships[id]
	if !ok || (rel.UserID != userID && rel.BuddyID != userID) || rel.Status == RelationshipEnded {
		return false, nil
	}
	rel.Status = status
	rel.UpdatedAt = now
	return true, nil
}

func (r *fakeRepo) RecordWorkout(_ context.Context, id, userID int64, now time.Time) (bool, error) {
	rel, ok := r.relationships[id]
	if !ok || (rel.UserID != userID && rel.BuddyID != userID) || rel.Status != RelationshipActive {
		return false, nil
	}
	rel.TotalWorkouts++
	rel.LastInteraction = &now
	return true, nil
}

func (r *fakeRepo) RateRelationship(_ context.Context, id, userID int64, rating float64, now time.Time) (bool, error) {
	rel, ok := r.relationships[id]
	if !ok || (rel.UserID != userID && rel.BuddyID != userID) {
		return false, nil
	}
	rel.Rating = rating
	return true, nil
}

func (r *fakeRepo) GetStats(_ context.Context, userID int64) (*Stats, error) {
	return &Stats{}, nil
}

func testService(repo *fakeRepo, at time.Time) *service {
	svc := NewService(repo, nil, DefaultConfig()).(*service)
	svc.now = func() time.Time { return at }
	return svc
}

func TestSendRequest(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	alice := testProfile(1, 25, LevelIntermediate, "lose weight", "running")
	bob := testProfile(2, 26, LevelIntermediate, "lose weight", "running")

	t.Run("creates a pending request with expiry", func(t *testing.T) {
		repo := newFakeRepo(alice, bob)
		svc := testService(repo, now)

		req, err := svc.SendRequest(ctx, 1, &SendRequestInput{TargetID: 2, Message: "train together?"})

		require.NoError(t, err)
		assert.Equal(t, RequestPending, req.Status)
		assert.Equal(t, now.Add(7*24*time.Hour), req.ExpiresAt)
	})

	t.Run("rejects self requests", func(t *testing.T) {
		repo := newFakeRepo(alice)
		svc := testService(repo, now)

		_, err := svc.SendRequest(ctx, 1, &SendRequestInput{TargetID: 1})

		assert.ErrorIs(t, err, ErrCannotRequestSelf)
	})

	t.Run("rejects unknown targets", func(t *testing.T) {
		repo := newFakeRepo(alice)
		svc := testService(repo, now)

		_, err := svc.SendRequest(ctx, 1, &SendRequestInput{TargetID: 99})

		assert.ErrorIs(t, err, ErrProfileNotFound)
	})

	t.Run("rejects duplicates in either direction", func(t *testing.T) {
		repo := newFakeRepo(alice, bob)
		svc := testService(repo, now)

		_, err := svc.SendRequest(ctx, 1, &SendRequestInput{TargetID: 2})
		require.NoError(t, err)

		_, err = svc.SendRequest(ctx, 1, &SendRequestInput{TargetID: 2})
		assert.ErrorIs(t, err, ErrRequestAlreadyPending)

		_, err = svc.SendRequest(ctx, 2, &SendRequestInput{TargetID: 1})
		assert.ErrorIs(t, err, ErrRequestAlreadyPending)
	})

	t.Run("allows a new request after the old one expires", func(t *testing.T) {
		repo := newFakeRepo(alice, bob)
		svc := testService(repo, now)

		_, err := svc.SendRequest(ctx, 1, &SendRequestInput{TargetID: 2})
		require.NoError(t, err)

		later := testService(repo, now.Add(8*24*time.Hour))
		_, err = later.SendRequest(ctx, 1, &SendRequestInput{TargetID: 2})
		assert.NoError(t, err)
	})

	t.Run("rejects requests between active buddies", func(t *testing.T) {
		repo := newFakeRepo(alice, bob)
		repo.relationships[100] = &BuddyRelationship{ID: 100, UserID: 2, BuddyID: 1, Status: RelationshipActive}
		svc := testService(repo, now)

		_, err := svc.SendRequest(ctx, 1, &SendRequestInput{TargetID: 2})

		assert.ErrorIs(t, err, ErrAlreadyBuddies)
	})
}

func TestRespondToRequest(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	alice := testProfile(1, 25, LevelIntermediate, "lose weight", "running", "yoga", "hiit")
	bob := testProfile(2, 26, LevelIntermediate, "lose weight", "running", "yoga", "hiit")

	setup := func() (*fakeRepo, *service, *BuddyRequest) {
		repo := newFakeRepo(alice, bob)
		svc := testService(repo, now)
		req, err := svc.SendRequest(ctx, 1, &SendRequestInput{TargetID: 2})
		require.NoError(t, err)
		return repo, svc, req
	}

	t.Run("accept creates an active relationship with a fresh score", func(t *testing.T) {
		repo, svc, req := setup()

		answered, err := svc.RespondToRequest(ctx, 2, req.ID, &RespondInput{Accept: true, Message: "yes!"})

		require.NoError(t, err)
		assert.Equal(t, RequestAccepted, answered.Status)

		rel, err := repo.GetActiveRelationshipBetween(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, 100, rel.MatchScore)
		assert.NotEmpty(t, rel.MatchReasons)
	})

	t.Run("reject records the response without a relationship", func(t *testing.T) {
		repo, svc, req := setup()

		answered, err := svc.RespondToRequest(ctx, 2, req.ID, &RespondInput{Accept: false, Message: "sorry"})

		require.NoError(t, err)
		assert.Equal(t, RequestRejected, answered.Status)

		_, err = repo.GetActiveRelationshipBetween(ctx, 1, 2)
		assert.ErrorIs(t, err, ErrRelationshipNotFound)
	})

	t.Run("only the target may respond", func(t *testing.T) {
		_, svc, req := setup()

		_, err := svc.RespondToRequest(ctx, 1, req.ID, &RespondInput{Accept: true})

		assert.ErrorIs(t, err, ErrNotRequestTarget)
	})

	t.Run("responding twice fails", func(t *testing.T) {
		_, svc, req := setup()

		_, err := svc.RespondToRequest(ctx, 2, req.ID, &RespondInput{Accept: true})
		require.NoError(t, err)

		_, err = svc.RespondToRequest(ctx, 2, req.ID, &RespondInput{Accept: true})
		assert.ErrorIs(t, err, ErrRequestNotPending)
	})

	t.Run("an expired request cannot be accepted", func(t *testing.T) {
		repo, _, req := setup()

		later := testService(repo, now.Add(8*24*time.Hour))
		_, err := later.RespondToRequest(ctx, 2, req.ID, &RespondInput{Accept: true})

		assert.ErrorIs(t, err, ErrRequestNotPending)
	})
}

func TestListRequestsResolvesExpiryAtReadTime(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	alice := testProfile(1, 25, LevelIntermediate, "lose weight", "running")
	bob := testProfile(2, 26, LevelIntermediate, "lose weight", "running")

	repo := newFakeRepo(alice, bob)
	svc := testService(repo, now)
	req, err := svc.SendRequest(ctx, 1, &SendRequestInput{TargetID: 2})
	require.NoError(t, err)

	later := testService(repo, now.Add(8*24*time.Hour))

	pending, err := later.ListReceivedRequests(ctx, 2, RequestPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	pending, err = later.ListSentRequests(ctx, 1, RequestPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	expired, err := later.ListReceivedRequests(ctx, 2, RequestExpired)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, req.ID, expired[0].ID)

	// Before the deadline the same request still reads as pending
	pending, err = svc.ListReceivedRequests(ctx, 2, RequestPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
}

func TestUpdateRelationship(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	alice := testProfile(1, 25, LevelIntermediate, "lose weight")
	bob := testProfile(2, 26, LevelIntermediate, "lose weight")
	carol := testProfile(3, 30, LevelAdvanced, "endurance")

	setup := func() (*fakeRepo, *service) {
		repo := newFakeRepo(alice, bob, carol)
		repo.relationships[10] = &BuddyRelationship{ID: 10, UserID: 1, BuddyID: 2, Status: RelationshipActive}
		return repo, testService(repo, now)
	}

	t.Run("member can pause and resume", func(t *testing.T) {
		_, svc := setup()

		rel, err := svc.UpdateRelationship(ctx, 2, 10, &UpdateRelationshipInput{Status: RelationshipPaused})
		require.NoError(t, err)
		assert.Equal(t, RelationshipPaused, rel.Status)

		rel, err = svc.UpdateRelationship(ctx, 1, 10, &UpdateRelationshipInput{Status: RelationshipActive})
		require.NoError(t, err)
		assert.Equal(t, RelationshipActive, rel.Status)
	})

	t.Run("ended relationships are terminal", func(t *testing.T) {
		_, svc := setup()

		_, err := svc.UpdateRelationship(ctx, 1, 10, &UpdateRelationshipInput{Status: RelationshipEnded})
		require.NoError(t, err)

		_, err = svc.UpdateRelationship(ctx, 1, 10, &UpdateRelationshipInput{Status: RelationshipActive})
		assert.ErrorIs(t, err, ErrRelationshipNotFound)
	})

	t.Run("non-members are rejected", func(t *testing.T) {
		_, svc := setup()

		_, err := svc.UpdateRelationship(ctx, 3, 10, &UpdateRelationshipInput{Status: RelationshipEnded})

		assert.ErrorIs(t, err, ErrNotRelationshipMember)
	})

	t.Run("ending a relationship frees the pair for new requests", func(t *testing.T) {
		_, svc := setup()

		_, err := svc.UpdateRelationship(ctx, 1, 10, &UpdateRelationshipInput{Status: RelationshipEnded})
		require.NoError(t, err)

		_, err = svc.SendRequest(ctx, 1, &SendRequestInput{TargetID: 2})
		assert.NoError(t, err)
	})
}

func TestRecordWorkoutAndRate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	alice := testProfile(1, 25, LevelIntermediate, "lose weight")
	bob := testProfile(2, 26, LevelIntermediate, "lose weight")

	repo := newFakeRepo(alice, bob)
	repo.relationships[10] = &BuddyRelationship{ID: 10, UserID: 1, BuddyID: 2, Status: RelationshipActive}
	svc := testService(repo, now)

	rel, err := svc.RecordWorkout(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, rel.TotalWorkouts)
	require.NotNil(t, rel.LastInteraction)
	assert.Equal(t, now, *rel.LastInteraction)

	err = svc.RateBuddy(ctx, 2, 10, 4.5)
	require.NoError(t, err)
	assert.Equal(t, 4.5, repo.relationships[10].Rating)

	_, err = svc.RecordWorkout(ctx, 3, 10)
	assert.ErrorIs(t, err, ErrRelationshipNotFound)
}

func TestRecommendationsExcludePendingAndActive(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	viewer := testProfile(1, 25, LevelIntermediate, "lose weight", "running")
	pendingTarget := testProfile(2, 25, LevelIntermediate, "lose weight", "running")
	activeBuddy := testProfile(3, 25, LevelIntermediate, "lose weight", "running")
	fresh := testProfile(4, 25, LevelIntermediate, "lose weight", "running")

	repo := newFakeRepo(viewer, pendingTarget, activeBuddy, fresh)
	repo.relationships[10] = &BuddyRelationship{ID: 10, UserID: 3, BuddyID: 1, Status: RelationshipActive}
	svc := testService(repo, now)

	_, err := svc.SendRequest(ctx, 1, &SendRequestInput{TargetID: 2})
	require.NoError(t, err)

	resp, err := svc.GetRecommendations(ctx, 1, SearchParams{Limit: 10})
	require.NoError(t, err)

	require.Len(t, resp.Matches, 1)
	assert.Equal(t, int64(4), resp.Matches[0].Profile.UserID)
}
