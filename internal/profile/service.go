// internal/profile/service.go

package profile

import (
	"context"
	"errors"
	"mime/multipart"
	"time"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileAlreadyExists = errors.New("profile already set up")
)

// Service defines profile business logic
type Service interface {
	SetupProfile(ctx context.Context, userID int64, input *SetupProfileInput) (*UserProfile, error)
	GetProfile(ctx context.Context, userID int64) (*UserProfile, error)
	UpdateProfile(ctx context.Context, userID int64, input *UpdateProfileInput) (*UserProfile, error)
	UpdateLocation(ctx context.Context, userID int64, input *UpdateLocationInput) error
	UploadAvatar(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error)
	GetCompletion(ctx context.Context, userID int64) (*Completion, error)
}

type service struct {
	repo     Repository
	uploader UploadService
}

// NewService creates the profile service. uploader may be nil when media
// uploads are disabled.
func NewService(repo Repository, uploader UploadService) Service {
	return &service{repo: repo, uploader: uploader}
}

func (s *service) SetupProfile(ctx context.Context, userID int64, input *SetupProfileInput) (*UserProfile, error) {
	exists, err := s.repo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrProfileAlreadyExists
	}

	p := &UserProfile{
		UserID:       userID,
		Nickname:     input.Nickname,
		Bio:          input.Bio,
		Age:          input.Age,
		Gender:       input.Gender,
		HeightCm:     input.HeightCm,
		WeightKg:     input.WeightKg,
		FitnessLevel: input.FitnessLevel,
		FitnessTags:  input.FitnessTags,
		FitnessGoal:  input.FitnessGoal,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProfile(ctx context.Context, userID int64) (*UserProfile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID int64, input *UpdateProfileInput) (*UserProfile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Nickname != nil {
		p.Nickname = *input.Nickname
	}
	if input.Bio != nil {
		p.Bio = input.Bio
	}
	if input.Age != nil {
		p.Age = input.Age
	}
	if input.Gender != nil {
		p.Gender = input.Gender
	}
	if input.HeightCm != nil {
		p.HeightCm = input.HeightCm
	}
	if input.WeightKg != nil {
		p.WeightKg = input.WeightKg
	}
	if input.FitnessLevel != nil {
		p.FitnessLevel = input.FitnessLevel
	}
	if input.FitnessTags != nil {
		p.FitnessTags = input.FitnessTags
	}
	if input.FitnessGoal != nil {
		p.FitnessGoal = input.FitnessGoal
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) UpdateLocation(ctx context.Context, userID int64, input *UpdateLocationInput) error {
	return s.repo.UpdateLocation(ctx, userID, input.Latitude, input.Longitude, input.City)
}

func (s *service) UploadAvatar(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error) {
	if s.uploader == nil {
		return "", errors.New("uploads are not configured")
	}
	url, err := s.uploader.UploadFile(ctx, file, header, "avatars")
	if err != nil {
		return "", err
	}
	if err := s.repo.UpdateAvatar(ctx, userID, url); err != nil {
		return "", err
	}
	return url, nil
}

// GetCompletion scores the profile by filled fields. Matching quality
// depends directly on these fields, so the client nags until they exist.
func (s *service) GetCompletion(ctx context.Context, userID int64) (*Completion, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	checks := []struct {
		name   string
		filled bool
	}{
		{"nickname", p.Nickname != ""},
		{"bio", p.Bio != nil},
		{"age", p.Age != nil},
		{"height_cm", p.HeightCm != nil},
		{"weight_kg", p.WeightKg != nil},
		{"fitness_level", p.FitnessLevel != nil},
		{"fitness_tags", len(p.FitnessTags) > 0},
		{"fitness_goal", p.FitnessGoal != nil},
		{"location", p.Latitude != nil && p.Longitude != nil},
		{"avatar", p.Avatar != nil},
	}

	completion := &Completion{MissingFields: []string{}}
	filled := 0
	for _, c := range checks {
		if c.filled {
			filled++
		} else {
			completion.MissingFields = append(completion.MissingFields, c.name)
		}
	}
	completion.Percentage = filled * 100 / len(checks)
	return completion, nil
}
