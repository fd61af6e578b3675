// internal/workouts/service_test.go

package workouts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	plans    map[int64]*Plan
	sessions []*Session
	nextID   int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{plans: map[int64]*Plan{}, nextID: 1}
}

func (r *fakeRepo) CreatePlan(_ context.Context, plan *Plan) error {
	plan.ID = r.nextID
	r.nextID++
	r.plans[plan.ID] = plan
	return nil
}

func (r *fakeRepo) GetPlanByID(_ context.Context, id int64) (*Plan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

func (r *fakeRepo) ListPlansByUser(_ context.Context, userID int64) ([]*Plan, error) {
	var out []*Plan
	for _, p := range r.plans {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListPublicPlans(_ context.Context, difficulty string, limit int) ([]*Plan, error) {
	var out []*Plan
	for _, p := range r.plans {
		if p.IsPublic && (difficulty == "" || p.Difficulty == difficulty) && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdatePlan(_ context.Context, plan *Plan) error {
	if _, ok := r.plans[plan.ID]; !ok {
		return ErrPlanNotFound
	}
	r.plans[plan.ID] = plan
	return nil
}

func (r *fakeRepo) DeletePlan(_ context.Context, id, userID int64) (bool, error) {
	plan, ok := r.plans[id]
	if !ok || plan.UserID != userID {
		return false, nil
	}
	delete(r.plans, id)
	return true, nil
}

func (r *fakeRepo) CreateSession(_ context.Context, session *Session) error {
	session.ID = r.nextID
	r.nextID++
	r.sessions = append(r.sessions, session)
	return nil
}

func (r *fakeRepo) ListSessionsByUser(_ context.Context, userID int64, limit int) ([]*Session, error) {
	var out []*Session
	for _, s := range r.sessions {
		if s.UserID == userID && len(out) < limit {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetUserStats(_ context.Context, userID int64, weekStart time.Time) (*UserStats, error) {
	return &UserStats{}, nil
}

func planInput(name string, public bool) *CreatePlanInput {
	return &CreatePlanInput{
		Name:        name,
		Difficulty:  "beginner",
		DurationMin: 45,
		Exercises:   []Exercise{{Name: "squats", Sets: 3, Reps: 12}},
		IsPublic:    public,
	}
}

func TestPlanVisibility(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	private, err := svc.CreatePlan(ctx, 1, planInput("private", false))
	require.NoError(t, err)
	public, err := svc.CreatePlan(ctx, 1, planInput("public", true))
	require.NoError(t, err)

	_, err = svc.GetPlan(ctx, 1, private.ID)
	assert.NoError(t, err)

	_, err = svc.GetPlan(ctx, 2, private.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)

	_, err = svc.GetPlan(ctx, 2, public.ID)
	assert.NoError(t, err)
}

func TestUpdatePlanRequiresOwnership(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	plan, err := svc.CreatePlan(ctx, 1, planInput("mine", true))
	require.NoError(t, err)

	name := "renamed"
	_, err = svc.UpdatePlan(ctx, 2, plan.ID, &UpdatePlanInput{Name: &name})
	assert.ErrorIs(t, err, ErrNotPlanOwner)

	updated, err := svc.UpdatePlan(ctx, 1, plan.ID, &UpdatePlanInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
}

func TestLogSessionChecksLinkedPlan(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	plan, err := svc.CreatePlan(ctx, 1, planInput("leg day", false))
	require.NoError(t, err)

	t.Run("owner can link their plan", func(t *testing.T) {
		session, err := svc.LogSession(ctx, 1, &LogSessionInput{
			PlanID:      &plan.ID,
			Activity:    "strength",
			DurationMin: 45,
		})
		require.NoError(t, err)
		assert.Equal(t, plan.ID, *session.PlanID)
	})

	t.Run("others cannot link a private plan", func(t *testing.T) {
		_, err := svc.LogSession(ctx, 2, &LogSessionInput{
			PlanID:      &plan.ID,
			Activity:    "strength",
			DurationMin: 45,
		})
		assert.ErrorIs(t, err, ErrPlanNotFound)
	})

	t.Run("performed_at defaults to now", func(t *testing.T) {
		session, err := svc.LogSession(ctx, 1, &LogSessionInput{
			Activity:    "running",
			DurationMin: 30,
		})
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), session.PerformedAt, time.Second)
	})
}
