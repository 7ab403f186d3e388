package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vidtube/internal/auth"
	apperrors "vidtube/internal/errors"
	"vidtube/internal/model"
	"vidtube/internal/repository"
)

// TokenPair bundles the two tokens issued together. They are returned
// atomically: a failed issuance never leaks a partial pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SessionService drives the session lifecycle: login, refresh-token rotation,
// logout invalidation, and password changes.
type SessionService interface {
	Login(ctx context.Context, username, email, password string) (*TokenPair, *model.User, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
}

type sessionService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewSessionService creates a new session service.
func NewSessionService(userRepo repository.UserRepository, jwtService *auth.JWTService) SessionService {
	return &sessionService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// issueTokens mints a fresh pair and persists the refresh token on the user
// record, overwriting any prior value. This is the rotation point: the previous
// refresh token stops validating the moment the write lands.
func (s *sessionService) issueTokens(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(userID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.userRepo.UpdateRefreshToken(ctx, userID, refreshToken); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Login authenticates by username or email and issues a token pair.
func (s *sessionService) Login(ctx context.Context, username, email, password string) (*TokenPair, *model.User, error) {
	if username == "" && email == "" {
		return nil, nil, apperrors.ErrMissingCredential
	}

	user, err := s.userRepo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		return nil, nil, fmt.Errorf("check password: %w", err)
	}
	if !ok {
		return nil, nil, apperrors.ErrInvalidCredential
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	user.RefreshToken = pair.RefreshToken
	return pair, user, nil
}

// Refresh rotates a valid refresh token into a new pair. A token that verifies
// but no longer matches the stored value is treated as replay of a rotated
// token and rejected.
func (s *sessionService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, apperrors.ErrUnauthorized
	}

	userID, err := s.jwtService.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user.RefreshToken == "" {
		// Logged out: nothing to rotate.
		return nil, apperrors.ErrInvalidToken
	}
	if user.RefreshToken != refreshToken {
		return nil, apperrors.ErrTokenReused
	}

	return s.issueTokens(ctx, user.ID)
}

// Logout clears the persisted refresh token unconditionally.
func (s *sessionService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, ""); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

// ChangePassword verifies the old password and stores a fresh hash. The
// refresh token is left untouched: existing sessions survive.
func (s *sessionService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	ok, err := auth.CheckPassword(oldPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("check password: %w", err)
	}
	if !ok {
		return apperrors.ErrInvalidCredential
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
