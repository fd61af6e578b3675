// internal/auth/service.go
// Business logic for registration, login, and token lifecycle

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/fittrackr/fittrackr-backend/internal/common/utils"
)

// Common errors
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrInvalidToken          = errors.New("invalid token")
)

// Service interface
type Service interface {
	Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error)
	Signin(ctx context.Context, req *SigninRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error)
	Logout(ctx context.Context, token string) error
	GetUserByID(ctx context.Context, userID int64) (*User, error)
}

// Config holds service configuration
type Config struct {
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	BCryptCost         int
}

type service struct {
	repo   Repository
	redis  *redis.Client
	config *Config
}

// NewService creates a new auth service. redis may be nil; token
// revocation then degrades to expiry-only.
func NewService(repo Repository, redisClient *redis.Client, config *Config) Service {
	return &service{
		repo:   repo,
		redis:  redisClient,
		config: config,
	}
}

func (s *service) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))

	if taken, err := s.repo.IsEmailTaken(ctx, req.Email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if taken {
		return nil, ErrEmailAlreadyExists
	}

	if taken, err := s.repo.IsUsernameTaken(ctx, req.Username); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	} else if taken {
		return nil, ErrUsernameAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.buildAuthResponse(user)
}

func (s *service) Signin(ctx context.Context, req *SigninRequest) (*AuthResponse, error) {
	user, err := s.repo.GetUserByEmailOrUsername(ctx, strings.ToLower(strings.TrimSpace(req.EmailOrUsername)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.buildAuthResponse(user)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.ValidateToken(ctx, refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.Type != "refresh" {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	// Old refresh token is revoked so each one is single-use
	if err := s.revokeToken(ctx, refreshToken, claims.ExpiresAt); err != nil {
		return nil, err
	}

	return s.buildAuthResponse(user)
}

func (s *service) ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error) {
	if s.isTokenRevoked(ctx, token) {
		return nil, ErrInvalidToken
	}

	claims, err := utils.ValidateJWT(token, s.config.JWTSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *service) Logout(ctx context.Context, token string) error {
	claims, err := utils.ValidateJWT(token, s.config.JWTSecret)
	if err != nil {
		// Already invalid; nothing to revoke
		return nil
	}

	return s.revokeToken(ctx, token, claims.ExpiresAt)
}

func (s *service) GetUserByID(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// buildAuthResponse issues a fresh access/refresh token pair
func (s *service) buildAuthResponse(user *User) (*AuthResponse, error) {
	now := time.Now()

	accessToken, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Type:      "access",
		ExpiresAt: now.Add(s.config.AccessTokenExpiry).Unix(),
		IssuedAt:  now.Unix(),
		NotBefore: now.Unix(),
		Issuer:    "fittrackr",
	}, s.config.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Type:      "refresh",
		ExpiresAt: now.Add(s.config.RefreshTokenExpiry).Unix(),
		IssuedAt:  now.Unix(),
		NotBefore: now.Unix(),
		Issuer:    "fittrackr",
	}, s.config.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.config.AccessTokenExpiry.Seconds()),
		TokenType:    "Bearer",
	}, nil
}

func (s *service) revokeToken(ctx context.Context, token string, expiresAt int64) error {
	if s.redis == nil {
		return nil
	}

	ttl := time.Until(time.Unix(expiresAt, 0))
	if ttl <= 0 {
		return nil
	}

	return s.redis.Set(ctx, "revoked:"+token, "1", ttl).Err()
}

func (s *service) isTokenRevoked(ctx context.Context, token string) bool {
	if s.redis == nil {
		return false
	}

	exists, err := s.redis.Exists(ctx, "revoked:"+token).Result()
	return err == nil && exists > 0
}
