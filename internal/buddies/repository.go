// internal/buddies/repository.go

package buddies

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines data access for buddy matching
type Repository interface {
	// Profiles
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	GetCandidateProfiles(ctx context.Context, excluded []int64, limit int) ([]*Profile, error)
	GetExcludedUserIDs(ctx context.Context, userID int64, now time.Time) ([]int64, error)

	// Requests
	CreateRequest(ctx context.Context, req *BuddyRequest) error
	GetRequestByID(ctx context.Context, id int64) (*BuddyRequest, error)
	HasPendingRequestBetween(ctx context.Context, userA, userB int64, now time.Time) (bool, error)
	ListSentRequests(ctx context.Context, userID int64, status string, now time.Time) ([]*BuddyRequest, error)
	ListReceivedRequests(ctx context.Context, userID int64, status string, now time.Time) ([]*BuddyRequest, error)
	RejectRequest(ctx context.Context, requestID int64, message string, now time.Time) (bool, error)
	AcceptRequest(ctx context.Context, req *BuddyRequest, message string, score int, reasons []string, now time.Time) (*BuddyRelationship, error)
	CancelRequest(ctx context.Context, requestID, requesterID int64) (bool, error)

	// Relationships
	GetRelationshipByID(ctx context.Context, id int64) (*BuddyRelationship, error)
	GetActiveRelationshipBetween(ctx context.Context, userA, userB int64) (*BuddyRelationship, error)
	ListRelationships(ctx context.Context, userID int64, status string) ([]*BuddyRelationship, error)
	UpdateRelationshipStatus(ctx context.Context, id, userID int64, status string, now time.Time) (bool, error)
	RecordWorkout(ctx context.Context, id, userID int64, now time.Time) (bool, error)
	RateRelationship(ctx context.Context, id, userID int64, rating float64, now time.Time) (bool, error)

	// Stats
	GetStats(ctx context.Context, userID int64) (*Stats, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a PostgreSQL-backed repository
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const profileColumns = `
	u.id AS user_id,
	p.nickname,
	p.avatar,
	p.bio,
	p.age,
	p.fitness_level,
	COALESCE(p.fitness_tags, '{}') AS fitness_tags,
	p.fitness_goal,
	p.latitude,
	p.longitude,
	u.is_verified`

func (r *postgresRepository) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users u
		JOIN user_profiles p ON p.user_id = u.id
		WHERE u.id = $1 AND u.deleted_at IS NULL`, profileColumns)

	var profile Profile
	err := r.db.GetContext(ctx, &profile, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

// GetCandidateProfiles returns active profiles outside the exclusion set.
// The pool is bounded; scoring and ranking happen in memory afterwards.
func (r *postgresRepository) GetCandidateProfiles(ctx context.Context, excluded []int64, limit int) ([]*Profile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users u
		JOIN user_profiles p ON p.user_id = u.id
		WHERE u.deleted_at IS NULL
		  AND NOT (u.id = ANY($1))
		ORDER BY u.last_active_at DESC NULLS LAST
		LIMIT $2`, profileColumns)

	rows, err := r.db.QueryxContext(ctx, query, pq.Array(excluded), limit)
	if err != nil {
		return nil, fmt.Errorf("get candidate profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		var p Profile
		if err := rows.StructScan(&p); err != nil {
			return nil, fmt.Errorf("scan candidate profile: %w", err)
		}
		profiles = append(profiles, &p)
	}
	return profiles, rows.Err()
}

// GetExcludedUserIDs collects the viewer, both sides of every active
// relationship, and both sides of every live pending request. The set is
// recomputed on every call so an ended relationship or an expired request
// immediately stops excluding its counterpart.
func (r *postgresRepository) GetExcludedUserIDs(ctx context.Context, userID int64, now time.Time) ([]int64, error) {
	query := `
		SELECT buddy_id FROM buddy_relationships
		WHERE user_id = $1 AND status = 'active'
		UNION
		SELECT user_id FROM buddy_relationships
		WHERE buddy_id = $1 AND status = 'active'
		UNION
		SELECT target_id FROM buddy_requests
		WHERE requester_id = $1 AND status = 'pending' AND expires_at > $2
		UNION
		SELECT requester_id FROM buddy_requests
		WHERE target_id = $1 AND status = 'pending' AND expires_at > $2`

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, userID, now); err != nil {
		return nil, fmt.Errorf("get excluded user ids: %w", err)
	}
	return append(ids, userID), nil
}

func (r *postgresRepository) CreateRequest(ctx context.Context, req *BuddyRequest) error {
	query := `
		INSERT INTO buddy_requests (
			requester_id, target_id, status, request_message,
			workout_preferences, preferred_time, preferred_location,
			created_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := r.db.QueryRowxContext(ctx, query,
		req.RequesterID, req.TargetID, req.Status, req.RequestMessage,
		req.Preferences, req.PreferredTime, req.PreferredLocation,
		req.CreatedAt, req.ExpiresAt,
	).Scan(&req.ID)
	if err != nil {
		return fmt.Errorf("create buddy request: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetRequestByID(ctx context.Context, id int64) (*BuddyRequest, error) {
	query := `
		SELECT id, requester_id, target_id, status, request_message,
		       response_message, workout_preferences, preferred_time,
		       preferred_location, created_at, responded_at, expires_at
		FROM buddy_requests
		WHERE id = $1`

	var req BuddyRequest
	err := r.db.GetContext(ctx, &req, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get buddy request: %w", err)
	}
	return &req, nil
}

func (r *postgresRepository) HasPendingRequestBetween(ctx context.Context, userA, userB int64, now time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM buddy_requests
			WHERE ((requester_id = $1 AND target_id = $2)
			    OR (requester_id = $2 AND target_id = $1))
			  AND status = 'pending' AND expires_at > $3
		)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userA, userB, now); err != nil {
		return false, fmt.Errorf("check pending request: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ListSentRequests(ctx context.Context, userID int64, status string, now time.Time) ([]*BuddyRequest, error) {
	return r.listRequests(ctx, "requester_id", userID, status, now)
}

func (r *postgresRepository) ListReceivedRequests(ctx context.Context, userID int64, status string, now time.Time) ([]*BuddyRequest, error) {
	return r.listRequests(ctx, "target_id", userID, status, now)
}

func (r *postgresRepository) listRequests(ctx context.Context, column string, userID int64, status string, now time.Time) ([]*BuddyRequest, error) {
	query := fmt.Sprintf(`
		SELECT id, requester_id, target_id, status, request_message,
		       response_message, workout_preferences, preferred_time,
		       preferred_location, created_at, responded_at, expires_at
		FROM buddy_requests
		WHERE %s = $1
		ORDER BY created_at DESC`, column)

	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list buddy requests: %w", err)
	}
	defer rows.Close()

	var requests []*BuddyRequest
	for rows.Next() {
		var req BuddyRequest
		if err := rows.StructScan(&req); err != nil {
			return nil, fmt.Errorf("scan buddy request: %w", err)
		}
		// Expiry is resolved at read time, never by a background job
		if status != "" && req.EffectiveStatus(now) != status {
			continue
		}
		requests = append(requests, &req)
	}
	return requests, rows.Err()
}

// RejectRequest flips a live pending request to rejected. The status and
// expiry guards in the WHERE clause make the transition race-safe: a
// request that was already answered or has expired matches zero rows.
func (r *postgresRepository) RejectRequest(ctx context.Context, requestID int64, message string, now time.Time) (bool, error) {
	query := `
		UPDATE buddy_requests
		SET status = 'rejected', response_message = $2, responded_at = $3
		WHERE id = $1 AND status = 'pending' AND expires_at > $3`

	result, err := r.db.ExecContext(ctx, query, requestID, message, now)
	if err != nil {
		return false, fmt.Errorf("reject buddy request: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reject buddy request: %w", err)
	}
	return affected > 0, nil
}

// AcceptRequest atomically answers the request and creates the
// relationship. The score is computed by the caller at acceptance time,
// not replayed from when the request was sent.
func (r *postgresRepository) AcceptRequest(ctx context.Context, req *BuddyRequest, message string, score int, reasons []string, now time.Time) (*BuddyRelationship, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin accept tx: %w", err)
	}
	defer tx.Rollback()

	updateQuery := `
		UPDATE buddy_requests
		SET status = 'accepted', response_message = $2, responded_at = $3
		WHERE id = $1 AND status = 'pending' AND expires_at > $3`

	result, err := tx.ExecContext(ctx, updateQuery, req.ID, message, now)
	if err != nil {
		return nil, fmt.Errorf("accept buddy request: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("accept buddy request: %w", err)
	}
	if affected == 0 {
		return nil, ErrRequestNotPending
	}

	rel := &BuddyRelationship{
		UserID:       req.RequesterID,
		BuddyID:      req.TargetID,
		Status:       RelationshipActive,
		MatchScore:   score,
		MatchReasons: reasons,
		Preferences:  req.Preferences,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	insertQuery := `
		INSERT INTO buddy_relationships (
			user_id, buddy_id, status, match_score, match_reasons,
			workout_preferences, total_workouts, rating, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, 0, 0, $7, $7)
		RETURNING id`

	err = tx.QueryRowxContext(ctx, insertQuery,
		rel.UserID, rel.BuddyID, rel.Status, rel.MatchScore,
		pq.Array(rel.MatchReasons), rel.Preferences, now,
	).Scan(&rel.ID)
	if err != nil {
		return nil, fmt.Errorf("create buddy relationship: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit accept tx: %w", err)
	}
	return rel, nil
}

func (r *postgresRepository) CancelRequest(ctx context.Context, requestID, requesterID int64) (bool, error) {
	query := `
		DELETE FROM buddy_requests
		WHERE id = $1 AND requester_id = $2 AND status = 'pending'`

	result, err := r.db.ExecContext(ctx, query, requestID, requesterID)
	if err != nil {
		return false, fmt.Errorf("cancel buddy request: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("cancel buddy request: %w", err)
	}
	return affected > 0, nil
}

const relationshipColumns = `
	id, user_id, buddy_id, status, match_score,
	COALESCE(match_reasons, '{}') AS match_reasons,
	workout_preferences, total_workouts, rating,
	last_interaction, created_at, updated_at`

func (r *postgresRepository) GetRelationshipByID(ctx context.Context, id int64) (*BuddyRelationship, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM buddy_relationships WHERE id = $1`, relationshipColumns)

	var rel BuddyRelationship
	err := r.db.GetContext(ctx, &rel, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrRelationshipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get buddy relationship: %w", err)
	}
	return &rel, nil
}

func (r *postgresRepository) GetActiveRelationshipBetween(ctx context.Context, userA, userB int64) (*BuddyRelationship, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM buddy_relationships
		WHERE ((user_id = $1 AND buddy_id = $2)
		    OR (user_id = $2 AND buddy_id = $1))
		  AND status = 'active'
		LIMIT 1`, relationshipColumns)

	var rel BuddyRelationship
	err := r.db.GetContext(ctx, &rel, query, userA, userB)
	if err == sql.ErrNoRows {
		return nil, ErrRelationshipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get active relationship: %w", err)
	}
	return &rel, nil
}

func (r *postgresRepository) ListRelationships(ctx context.Context, userID int64, status string) ([]*BuddyRelationship, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM buddy_relationships
		WHERE (user_id = $1 OR buddy_id = $1)`, relationshipColumns)
	args := []interface{}{userID}

	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list buddy relationships: %w", err)
	}
	defer rows.Close()

	var relationships []*BuddyRelationship
	for rows.Next() {
		var rel BuddyRelationship
		if err := rows.StructScan(&rel); err != nil {
			return nil, fmt.Errorf("scan buddy relationship: %w", err)
		}
		relationships = append(relationships, &rel)
	}
	return relationships, rows.Err()
}

// UpdateRelationshipStatus requires membership; ended relationships stay
// in place as history and cannot transition further
func (r *postgresRepository) UpdateRelationshipStatus(ctx context.Context, id, userID int64, status string, now time.Time) (bool, error) {
	query := `
		UPDATE buddy_relationships
		SET status = $3, updated_at = $4
		WHERE id = $1 AND (user_id = $2 OR buddy_id = $2) AND status != 'ended'`

	result, err := r.db.ExecContext(ctx, query, id, userID, status, now)
	if err != nil {
		return false, fmt.Errorf("update relationship status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update relationship status: %w", err)
	}
	return affected > 0, nil
}

func (r *postgresRepository) RecordWorkout(ctx context.Context, id, userID int64, now time.Time) (bool, error) {
	query := `
		UPDATE buddy_relationships
		SET total_workouts = total_workouts + 1, last_interaction = $3, updated_at = $3
		WHERE id = $1 AND (user_id = $2 OR buddy_id = $2) AND status = 'active'`

	result, err := r.db.ExecContext(ctx, query, id, userID, now)
	if err != nil {
		return false, fmt.Errorf("record buddy workout: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record buddy workout: %w", err)
	}
	return affected > 0, nil
}

func (r *postgresRepository) RateRelationship(ctx context.Context, id, userID int64, rating float64, now time.Time) (bool, error) {
	query := `
		UPDATE buddy_relationships
		SET rating = $3, updated_at = $4
		WHERE id = $1 AND (user_id = $2 OR buddy_id = $2)`

	result, err := r.db.ExecContext(ctx, query, id, userID, rating, now)
	if err != nil {
		return false, fmt.Errorf("rate buddy relationship: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rate buddy relationship: %w", err)
	}
	return affected > 0, nil
}

func (r *postgresRepository) GetStats(ctx context.Context, userID int64) (*Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM buddy_relationships
			 WHERE user_id = $1 OR buddy_id = $1) AS total_buddies,
			(SELECT COUNT(*) FROM buddy_relationships
			 WHERE (user_id = $1 OR buddy_id = $1) AND status = 'active') AS active_buddies,
			(SELECT COUNT(*) FROM buddy_requests
			 WHERE requester_id = $1) AS total_requests_sent,
			(SELECT COUNT(*) FROM buddy_requests
			 WHERE target_id = $1) AS total_requests_received,
			(SELECT COUNT(*) FROM buddy_requests
			 WHERE target_id = $1 AND status = 'accepted') AS accepted_requests,
			(SELECT COUNT(*) FROM buddy_requests
			 WHERE target_id = $1 AND status = 'rejected') AS rejected_requests,
			(SELECT COALESCE(SUM(total_workouts), 0) FROM buddy_relationships
			 WHERE user_id = $1 OR buddy_id = $1) AS total_workouts,
			(SELECT COALESCE(AVG(rating), 0) FROM buddy_relationships
			 WHERE (user_id = $1 OR buddy_id = $1) AND rating > 0) AS average_rating`

	var stats Stats
	err := r.db.QueryRowxContext(ctx, query, userID).Scan(
		&stats.TotalBuddies, &stats.ActiveBuddies,
		&stats.TotalRequestsSent, &stats.TotalRequestsReceived,
		&stats.AcceptedRequests, &stats.RejectedRequests,
		&stats.TotalWorkouts, &stats.AverageRating,
	)
	if err != nil {
		return nil, fmt.Errorf("get buddy stats: %w", err)
	}

	if stats.TotalRequestsSent > 0 {
		accepted, err := r.countAcceptedSent(ctx, userID)
		if err != nil {
			return nil, err
		}
		stats.MatchSuccessRate = float64(accepted) / float64(stats.TotalRequestsSent) * 100
	}
	return &stats, nil
}

func (r *postgresRepository) countAcceptedSent(ctx context.Context, userID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM buddy_requests WHERE requester_id = $1 AND status = 'accepted'`
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("count accepted sent requests: %w", err)
	}
	return count, nil
}
