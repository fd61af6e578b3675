// internal/community/service.go

package community

import (
	"context"
	"errors"
	"mime/multipart"
	"time"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
)

// Uploader stores post media and returns its public URL
type Uploader interface {
	UploadFile(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (string, error)
}

// Service defines community business logic
type Service interface {
	CreatePost(ctx context.Context, userID int64, input *CreatePostInput) (*Post, error)
	GetPost(ctx context.Context, postID, viewerID int64) (*Post, error)
	GetFeed(ctx context.Context, viewerID int64, tag string, skip, limit int) (*FeedResponse, error)
	GetUserPosts(ctx context.Context, userID, viewerID int64, limit int) ([]*Post, error)
	DeletePost(ctx context.Context, postID, userID int64) error

	LikePost(ctx context.Context, postID, userID int64) error
	UnlikePost(ctx context.Context, postID, userID int64) error

	AddComment(ctx context.Context, postID, userID int64, input *CreateCommentInput) (*Comment, error)
	GetComments(ctx context.Context, postID int64, limit int) ([]*Comment, error)
	DeleteComment(ctx context.Context, commentID, userID int64) error

	UploadMedia(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error)
}

type service struct {
	repo     Repository
	uploader Uploader
	now      func() time.Time
}

// NewService creates the community service. uploader may be nil when
// media uploads are disabled.
func NewService(repo Repository, uploader Uploader) Service {
	return &service{repo: repo, uploader: uploader, now: time.Now}
}

func (s *service) CreatePost(ctx context.Context, userID int64, input *CreatePostInput) (*Post, error) {
	post := &Post{
		UserID:       userID,
		Content:      input.Content,
		MediaURLs:    input.MediaURLs,
		ActivityTags: input.ActivityTags,
		CreatedAt:    s.now(),
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *service) GetPost(ctx context.Context, postID, viewerID int64) (*Post, error) {
	return s.repo.GetPostByID(ctx, postID, viewerID)
}

func (s *service) GetFeed(ctx context.Context, viewerID int64, tag string, skip, limit int) (*FeedResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}

	posts, err := s.repo.ListFeed(ctx, viewerID, tag, skip, limit)
	if err != nil {
		return nil, err
	}
	return &FeedResponse{Posts: posts, Total: len(posts), Skip: skip, Limit: limit}, nil
}

func (s *service) GetUserPosts(ctx context.Context, userID, viewerID int64, limit int) ([]*Post, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.repo.ListPostsByUser(ctx, userID, viewerID, limit)
}

func (s *service) DeletePost(ctx context.Context, postID, userID int64) error {
	ok, err := s.repo.DeletePost(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPostNotFound
	}
	return nil
}

func (s *service) LikePost(ctx context.Context, postID, userID int64) error {
	_, err := s.repo.LikePost(ctx, postID, userID)
	return err
}

func (s *service) UnlikePost(ctx context.Context, postID, userID int64) error {
	_, err := s.repo.UnlikePost(ctx, postID, userID)
	return err
}

func (s *service) AddComment(ctx context.Context, postID, userID int64, input *CreateCommentInput) (*Comment, error) {
	comment := &Comment{
		PostID:    postID,
		UserID:    userID,
		Content:   input.Content,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *service) GetComments(ctx context.Context, postID int64, limit int) ([]*Comment, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListComments(ctx, postID, limit)
}

func (s *service) DeleteComment(ctx context.Context, commentID, userID int64) error {
	ok, err := s.repo.DeleteComment(ctx, commentID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCommentNotFound
	}
	return nil
}

func (s *service) UploadMedia(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	if s.uploader == nil {
		return "", errors.New("uploads are not configured")
	}
	return s.uploader.UploadFile(ctx, file, header, "posts")
}
