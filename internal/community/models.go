// internal/community/models.go

package community

import (
	"time"

	"github.com/lib/pq"
)

// Post is a community feed entry
type Post struct {
	ID           int64          `json:"id" db:"id"`
	UserID       int64          `json:"user_id" db:"user_id"`
	Content      string         `json:"content" db:"content"`
	MediaURLs    pq.StringArray `json:"media_urls" db:"media_urls"`
	ActivityTags pq.StringArray `json:"activity_tags" db:"activity_tags"`
	LikeCount    int            `json:"like_count" db:"like_count"`
	CommentCount int            `json:"comment_count" db:"comment_count"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`

	// Joined fields
	AuthorNickname string  `json:"author_nickname,omitempty" db:"author_nickname"`
	AuthorAvatar   *string `json:"author_avatar,omitempty" db:"author_avatar"`
	LikedByViewer  bool    `json:"liked_by_viewer" db:"liked_by_viewer"`
}

// Comment is a reply on a post
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	PostID    int64     `json:"post_id" db:"post_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	AuthorNickname string  `json:"author_nickname,omitempty" db:"author_nickname"`
	AuthorAvatar   *string `json:"author_avatar,omitempty" db:"author_avatar"`
}

// CreatePostInput is the post creation payload
type CreatePostInput struct {
	Content      string   `json:"content" validate:"required,min=1,max=2000"`
	MediaURLs    []string `json:"media_urls,omitempty" validate:"omitempty,max=9,dive,url"`
	ActivityTags []string `json:"activity_tags,omitempty" validate:"omitempty,max=10,dive,min=1,max=50"`
}

// CreateCommentInput is the comment creation payload
type CreateCommentInput struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}

// FeedResponse is a page of posts
type FeedResponse struct {
	Posts []*Post `json:"posts"`
	Total int     `json:"total"`
	Skip  int     `json:"skip"`
	Limit int     `json:"limit"`
}
