// internal/community/repository.go

package community

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines community data access
type Repository interface {
	CreatePost(ctx context.Context, post *Post) error
	GetPostByID(ctx context.Context, postID, viewerID int64) (*Post, error)
	ListFeed(ctx context.Context, viewerID int64, tag string, skip, limit int) ([]*Post, error)
	ListPostsByUser(ctx context.Context, userID, viewerID int64, limit int) ([]*Post, error)
	DeletePost(ctx context.Context, postID, userID int64) (bool, error)

	LikePost(ctx context.Context, postID, userID int64) (bool, error)
	UnlikePost(ctx context.Context, postID, userID int64) (bool, error)

	CreateComment(ctx context.Context, comment *Comment) error
	ListComments(ctx context.Context, postID int64, limit int) ([]*Comment, error)
	DeleteComment(ctx context.Context, commentID, userID int64) (bool, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a PostgreSQL-backed community repository
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const postSelect = `
	SELECT po.id, po.user_id, po.content,
	       COALESCE(po.media_urls, '{}') AS media_urls,
	       COALESCE(po.activity_tags, '{}') AS activity_tags,
	       po.like_count, po.comment_count, po.created_at, po.updated_at,
	       pr.nickname AS author_nickname, pr.avatar AS author_avatar,
	       EXISTS (
	           SELECT 1 FROM post_likes pl
	           WHERE pl.post_id = po.id AND pl.user_id = $1
	       ) AS liked_by_viewer
	FROM posts po
	JOIN user_profiles pr ON pr.user_id = po.user_id`

func (r *postgresRepository) CreatePost(ctx context.Context, post *Post) error {
	query := `
		INSERT INTO posts (user_id, content, media_urls, activity_tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id`

	err := r.db.QueryRowxContext(ctx, query,
		post.UserID, post.Content, post.MediaURLs, post.ActivityTags, post.CreatedAt,
	).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetPostByID(ctx context.Context, postID, viewerID int64) (*Post, error) {
	query := postSelect + ` WHERE po.id = $2`

	var post Post
	err := r.db.GetContext(ctx, &post, query, viewerID, postID)
	if err == sql.ErrNoRows {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

func (r *postgresRepository) ListFeed(ctx context.Context, viewerID int64, tag string, skip, limit int) ([]*Post, error) {
	query := postSelect
	args := []interface{}{viewerID}

	if tag != "" {
		query += ` WHERE $2 = ANY(po.activity_tags) ORDER BY po.created_at DESC OFFSET $3 LIMIT $4`
		args = append(args, tag, skip, limit)
	} else {
		query += ` ORDER BY po.created_at DESC OFFSET $2 LIMIT $3`
		args = append(args, skip, limit)
	}

	return r.queryPosts(ctx, query, args...)
}

func (r *postgresRepository) ListPostsByUser(ctx context.Context, userID, viewerID int64, limit int) ([]*Post, error) {
	query := postSelect + ` WHERE po.user_id = $2 ORDER BY po.created_at DESC LIMIT $3`
	return r.queryPosts(ctx, query, viewerID, userID, limit)
}

func (r *postgresRepository) queryPosts(ctx context.Context, query string, args ...interface{}) ([]*Post, error) {
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		var post Post
		if err := rows.StructScan(&post); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, &post)
	}
	return posts, rows.Err()
}

func (r *postgresRepository) DeletePost(ctx context.Context, postID, userID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM posts WHERE id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	return affected > 0, nil
}

// LikePost is idempotent: liking twice leaves a single like
func (r *postgresRepository) LikePost(ctx context.Context, postID, userID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin like tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO post_likes (post_id, user_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (post_id, user_id) DO NOTHING`, postID, userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return false, ErrPostNotFound
		}
		return false, fmt.Errorf("like post: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("like post: %w", err)
	}
	if affected == 0 {
		return false, tx.Commit()
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE posts SET like_count = like_count + 1 WHERE id = $1`, postID); err != nil {
		return false, fmt.Errorf("bump like count: %w", err)
	}
	return true, tx.Commit()
}

func (r *postgresRepository) UnlikePost(ctx context.Context, postID, userID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin unlike tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return false, fmt.Errorf("unlike post: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unlike post: %w", err)
	}
	if affected == 0 {
		return false, tx.Commit()
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE posts SET like_count = GREATEST(like_count - 1, 0) WHERE id = $1`, postID); err != nil {
		return false, fmt.Errorf("drop like count: %w", err)
	}
	return true, tx.Commit()
}

func (r *postgresRepository) CreateComment(ctx context.Context, comment *Comment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin comment tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO post_comments (post_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		comment.PostID, comment.UserID, comment.Content, comment.CreatedAt,
	).Scan(&comment.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrPostNotFound
		}
		return fmt.Errorf("create comment: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE posts SET comment_count = comment_count + 1 WHERE id = $1`, comment.PostID); err != nil {
		return fmt.Errorf("bump comment count: %w", err)
	}
	return tx.Commit()
}

func (r *postgresRepository) ListComments(ctx context.Context, postID int64, limit int) ([]*Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at,
		       pr.nickname AS author_nickname, pr.avatar AS author_avatar
		FROM post_comments c
		JOIN user_profiles pr ON pr.user_id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC
		LIMIT $2`

	rows, err := r.db.QueryxContext(ctx, query, postID, limit)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		var c Comment
		if err := rows.StructScan(&c); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

func (r *postgresRepository) DeleteComment(ctx context.Context, commentID, userID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete comment tx: %w", err)
	}
	defer tx.Rollback()

	var postID int64
	err = tx.QueryRowxContext(ctx, `
		DELETE FROM post_comments WHERE id = $1 AND user_id = $2
		RETURNING post_id`, commentID, userID).Scan(&postID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE posts SET comment_count = GREATEST(comment_count - 1, 0) WHERE id = $1`, postID); err != nil {
		return false, fmt.Errorf("drop comment count: %w", err)
	}
	return true, tx.Commit()
}
