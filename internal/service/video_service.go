package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "vidtube/internal/errors"
	"vidtube/internal/media"
	"vidtube/internal/model"
	"vidtube/internal/repository"
)

// PublishInput carries the fields and files needed to publish a video.
type PublishInput struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	Duration    int64
	VideoFile   *media.File
	Thumbnail   *media.File
}

// VideoService manages video publishing and viewing.
type VideoService interface {
	Publish(ctx context.Context, in PublishInput) (*model.Video, error)
	// Get returns a video and records the view for the viewer. Unpublished
	// videos are visible only to their owner.
	Get(ctx context.Context, videoID, viewerID uuid.UUID) (*model.Video, error)
	ListByChannel(ctx context.Context, channelUsername string) ([]model.Video, error)
}

type videoService struct {
	videoRepo   repository.VideoRepository
	userRepo    repository.UserRepository
	historyRepo repository.WatchHistoryRepository
	uploader    media.Uploader
	validator   *media.Validator
}

// NewVideoService creates a new video service.
func NewVideoService(
	videoRepo repository.VideoRepository,
	userRepo repository.UserRepository,
	historyRepo repository.WatchHistoryRepository,
	uploader media.Uploader,
	validator *media.Validator,
) VideoService {
	return &videoService{
		videoRepo:   videoRepo,
		userRepo:    userRepo,
		historyRepo: historyRepo,
		uploader:    uploader,
		validator:   validator,
	}
}

// Publish uploads the video file and thumbnail to the media host, then
// creates the record. Published by default.
func (s *videoService) Publish(ctx context.Context, in PublishInput) (*model.Video, error) {
	if in.VideoFile == nil || in.Thumbnail == nil {
		return nil, apperrors.ErrInvalidUpload
	}
	if err := s.validator.ValidateVideo(in.VideoFile.Filename, in.VideoFile.ContentType); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateImage(in.Thumbnail.Filename, in.Thumbnail.ContentType); err != nil {
		return nil, err
	}

	videoURL, err := s.uploader.Upload(ctx, "video", in.VideoFile.Filename, in.VideoFile.ContentType, in.VideoFile.Body)
	if err != nil {
		return nil, fmt.Errorf("upload video: %w", err)
	}

	thumbnailURL, err := s.uploader.Upload(ctx, "thumbnail", in.Thumbnail.Filename, in.Thumbnail.ContentType, in.Thumbnail.Body)
	if err != nil {
		return nil, fmt.Errorf("upload thumbnail: %w", err)
	}

	video := &model.Video{
		ID:          uuid.New(),
		OwnerID:     in.OwnerID,
		VideoFile:   videoURL,
		Thumbnail:   thumbnailURL,
		Title:       in.Title,
		Description: in.Description,
		Duration:    in.Duration,
		IsPublished: true,
	}

	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("create video: %w", err)
	}
	return video, nil
}

func (s *videoService) Get(ctx context.Context, videoID, viewerID uuid.UUID) (*model.Video, error) {
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVideoNotFound
		}
		return nil, fmt.Errorf("find video: %w", err)
	}

	if !video.IsPublished && video.OwnerID != viewerID {
		return nil, apperrors.ErrVideoNotFound
	}

	if viewerID != uuid.Nil && viewerID != video.OwnerID {
		if err := s.videoRepo.IncrementViews(ctx, video.ID); err != nil {
			return nil, fmt.Errorf("increment views: %w", err)
		}
		video.Views++
		entry := &model.WatchHistory{UserID: viewerID, VideoID: video.ID}
		if err := s.historyRepo.Append(ctx, entry); err != nil {
			return nil, fmt.Errorf("append watch history: %w", err)
		}
	}

	return video, nil
}

func (s *videoService) ListByChannel(ctx context.Context, channelUsername string) ([]model.Video, error) {
	channel, err := s.userRepo.FindByUsername(ctx, channelUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find channel: %w", err)
	}
	return s.videoRepo.ListByOwner(ctx, channel.ID, true)
}
