package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vidtube/internal/auth"
	"vidtube/internal/cache"
	apperrors "vidtube/internal/errors"
	"vidtube/internal/media"
	"vidtube/internal/model"
	"vidtube/internal/repository"
)

const (
	userCacheTTL    = 5 * time.Minute
	channelCacheTTL = 1 * time.Minute
	historyLimit    = 50
)

// RegisterInput carries the fields and files needed to create a user.
type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string
	Avatar   *media.File
	Cover    *media.File
}

// ChannelProfile is the public aggregation of a channel's identity and
// subscriber statistics.
type ChannelProfile struct {
	ID                uuid.UUID `json:"id"`
	Username          string    `json:"username"`
	FullName          string    `json:"full_name"`
	Email             string    `json:"email"`
	Avatar            string    `json:"avatar"`
	CoverImage        string    `json:"cover_image,omitempty"`
	SubscribersCount  int64     `json:"subscribers_count"`
	SubscribedToCount int64     `json:"subscribed_to_count"`
	IsSubscribed      bool      `json:"is_subscribed"`
}

// channelStats is the viewer-independent cached part of a channel profile.
type channelStats struct {
	SubscribersCount  int64 `json:"subscribers_count"`
	SubscribedToCount int64 `json:"subscribed_to_count"`
}

// UserService exposes registration, profile, and channel operations.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	CurrentUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateAccount(ctx context.Context, id uuid.UUID, fullName, email string) (*model.User, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, file *media.File) (*model.User, error)
	UpdateCoverImage(ctx context.Context, id uuid.UUID, file *media.File) (*model.User, error)
	GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (*ChannelProfile, error)
	WatchHistory(ctx context.Context, userID uuid.UUID) ([]model.WatchHistory, error)
}

type userService struct {
	userRepo    repository.UserRepository
	subRepo     repository.SubscriptionRepository
	historyRepo repository.WatchHistoryRepository
	uploader    media.Uploader
	validator   *media.Validator
	cache       *cache.Client
}

// NewUserService builds a UserService with its repositories, the media host
// uploader, and the cache.
func NewUserService(
	userRepo repository.UserRepository,
	subRepo repository.SubscriptionRepository,
	historyRepo repository.WatchHistoryRepository,
	uploader media.Uploader,
	validator *media.Validator,
	cacheClient *cache.Client,
) UserService {
	return &userService{
		userRepo:    userRepo,
		subRepo:     subRepo,
		historyRepo: historyRepo,
		uploader:    uploader,
		validator:   validator,
		cache:       cacheClient,
	}
}

func (s *userService) userCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

func (s *userService) channelCacheKey(username string) string {
	return fmt.Sprintf("channel:%s", username)
}

// Register creates a new user, uploading the avatar (required) and cover image
// (optional) to the media host first.
func (s *userService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))

	existing, err := s.userRepo.FindByUsernameOrEmail(ctx, username, in.Email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUserExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	if in.Avatar == nil {
		return nil, apperrors.ErrAvatarRequired
	}
	if err := s.validator.ValidateImage(in.Avatar.Filename, in.Avatar.ContentType); err != nil {
		return nil, err
	}

	avatarURL, err := s.uploader.Upload(ctx, "avatar", in.Avatar.Filename, in.Avatar.ContentType, in.Avatar.Body)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	var coverURL string
	if in.Cover != nil {
		if err := s.validator.ValidateImage(in.Cover.Filename, in.Cover.ContentType); err != nil {
			return nil, err
		}
		coverURL, err = s.uploader.Upload(ctx, "cover", in.Cover.Filename, in.Cover.ContentType, in.Cover.Body)
		if err != nil {
			return nil, fmt.Errorf("upload cover image: %w", err)
		}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: hash,
		Avatar:       avatarURL,
		CoverImage:   coverURL,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// CurrentUser retrieves a user by ID with caching.
func (s *userService) CurrentUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.userCacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.userCacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

// UpdateAccount updates full name and email, invalidating the cached user.
func (s *userService) UpdateAccount(ctx context.Context, id uuid.UUID, fullName, email string) (*model.User, error) {
	if err := s.userRepo.UpdateProfile(ctx, id, fullName, email); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	_ = s.cache.Delete(ctx, s.userCacheKey(id))
	return s.userRepo.FindByID(ctx, id)
}

// UpdateAvatar uploads a new avatar and persists its URL.
func (s *userService) UpdateAvatar(ctx context.Context, id uuid.UUID, file *media.File) (*model.User, error) {
	if file == nil {
		return nil, apperrors.ErrAvatarRequired
	}
	if err := s.validator.ValidateImage(file.Filename, file.ContentType); err != nil {
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, "avatar", file.Filename, file.ContentType, file.Body)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	if err := s.userRepo.UpdateAvatar(ctx, id, url); err != nil {
		return nil, fmt.Errorf("update avatar: %w", err)
	}
	_ = s.cache.Delete(ctx, s.userCacheKey(id))
	return s.userRepo.FindByID(ctx, id)
}

// UpdateCoverImage uploads a new cover image and persists its URL.
func (s *userService) UpdateCoverImage(ctx context.Context, id uuid.UUID, file *media.File) (*model.User, error) {
	if file == nil {
		return nil, apperrors.ErrInvalidUpload
	}
	if err := s.validator.ValidateImage(file.Filename, file.ContentType); err != nil {
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, "cover", file.Filename, file.ContentType, file.Body)
	if err != nil {
		return nil, fmt.Errorf("upload cover image: %w", err)
	}

	if err := s.userRepo.UpdateCoverImage(ctx, id, url); err != nil {
		return nil, fmt.Errorf("update cover image: %w", err)
	}
	_ = s.cache.Delete(ctx, s.userCacheKey(id))
	return s.userRepo.FindByID(ctx, id)
}

// GetChannelProfile aggregates a channel's identity with its subscriber
// statistics. The counts are cached per channel; the viewer-dependent
// is-subscribed flag is always computed fresh.
func (s *userService) GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (*ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperrors.ErrUserNotFound
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find channel: %w", err)
	}

	var stats channelStats
	cached := false
	if data, _ := s.cache.Get(ctx, s.channelCacheKey(username)); data != nil {
		if err := json.Unmarshal(data, &stats); err == nil {
			cached = true
		}
	}

	if !cached {
		subscribers, err := s.subRepo.CountSubscribers(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("count subscribers: %w", err)
		}
		subscribedTo, err := s.subRepo.CountSubscribedTo(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("count subscribed-to: %w", err)
		}
		stats = channelStats{SubscribersCount: subscribers, SubscribedToCount: subscribedTo}
		if payload, err := json.Marshal(stats); err == nil {
			_ = s.cache.Set(ctx, s.channelCacheKey(username), payload, channelCacheTTL)
		}
	}

	isSubscribed := false
	if viewerID != uuid.Nil {
		if _, err := s.subRepo.Find(ctx, viewerID, user.ID); err == nil {
			isSubscribed = true
		}
	}

	return &ChannelProfile{
		ID:                user.ID,
		Username:          user.Username,
		FullName:          user.FullName,
		Email:             user.Email,
		Avatar:            user.Avatar,
		CoverImage:        user.CoverImage,
		SubscribersCount:  stats.SubscribersCount,
		SubscribedToCount: stats.SubscribedToCount,
		IsSubscribed:      isSubscribed,
	}, nil
}

// WatchHistory lists the user's recently watched videos, newest first.
func (s *userService) WatchHistory(ctx context.Context, userID uuid.UUID) ([]model.WatchHistory, error) {
	return s.historyRepo.ListRecent(ctx, userID, historyLimit)
}
