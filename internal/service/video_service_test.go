package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "vidtube/internal/errors"
	"vidtube/internal/media"
	"vidtube/internal/model"
)

// MockVideoRepository is a mock implementation of VideoRepository.
type MockVideoRepository struct {
	mock.Mock
}

func (m *MockVideoRepository) Create(ctx context.Context, video *model.Video) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}

func (m *MockVideoRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockVideoRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, publishedOnly bool) ([]model.Video, error) {
	args := m.Called(ctx, ownerID, publishedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Video), args.Error(1)
}

func (m *MockVideoRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func videoFile(name string) *media.File {
	return &media.File{
		Filename:    name,
		ContentType: "video/mp4",
		Body:        strings.NewReader("fake video bytes"),
	}
}

func TestVideoService_Publish(t *testing.T) {
	ownerID := uuid.New()

	t.Run("uploads both files and creates the record", func(t *testing.T) {
		mockVideos := new(MockVideoRepository)
		mockVideos.On("Create", mock.Anything, mock.AnythingOfType("*model.Video")).Return(nil)
		uploader := &fakeUploader{}

		svc := NewVideoService(mockVideos, new(MockUserRepository), new(MockWatchHistoryRepository), uploader, media.NewValidator())
		video, err := svc.Publish(context.Background(), PublishInput{
			OwnerID:   ownerID,
			Title:     "Getting started",
			Duration:  312,
			VideoFile: videoFile("intro.mp4"),
			Thumbnail: imageFile("thumb.png"),
		})

		assert.NoError(t, err)
		assert.Equal(t, ownerID, video.OwnerID)
		assert.True(t, video.IsPublished)
		assert.Equal(t, []string{"video", "thumbnail"}, uploader.uploads)
		mockVideos.AssertExpectations(t)
	})

	t.Run("missing files", func(t *testing.T) {
		svc := NewVideoService(new(MockVideoRepository), new(MockUserRepository), new(MockWatchHistoryRepository), &fakeUploader{}, media.NewValidator())
		_, err := svc.Publish(context.Background(), PublishInput{OwnerID: ownerID, Title: "t"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidUpload)
	})

	t.Run("rejects image posing as video", func(t *testing.T) {
		svc := NewVideoService(new(MockVideoRepository), new(MockUserRepository), new(MockWatchHistoryRepository), &fakeUploader{}, media.NewValidator())
		_, err := svc.Publish(context.Background(), PublishInput{
			OwnerID:   ownerID,
			Title:     "t",
			VideoFile: imageFile("not-a-video.png"),
			Thumbnail: imageFile("thumb.png"),
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidUpload)
	})
}

func TestVideoService_Get(t *testing.T) {
	ownerID := uuid.New()
	viewerID := uuid.New()
	video := &model.Video{ID: uuid.New(), OwnerID: ownerID, Title: "t", IsPublished: true, Views: 9}

	t.Run("records the view for another user", func(t *testing.T) {
		mockVideos := new(MockVideoRepository)
		mockVideos.On("FindByID", mock.Anything, video.ID).Return(video, nil)
		mockVideos.On("IncrementViews", mock.Anything, video.ID).Return(nil)
		mockHistory := new(MockWatchHistoryRepository)
		mockHistory.On("Append", mock.Anything, mock.AnythingOfType("*model.WatchHistory")).Return(nil)

		svc := NewVideoService(mockVideos, new(MockUserRepository), mockHistory, &fakeUploader{}, media.NewValidator())
		got, err := svc.Get(context.Background(), video.ID, viewerID)

		assert.NoError(t, err)
		assert.Equal(t, int64(10), got.Views)
		mockVideos.AssertExpectations(t)
		mockHistory.AssertExpectations(t)
	})

	t.Run("owner views are not counted", func(t *testing.T) {
		owned := &model.Video{ID: uuid.New(), OwnerID: ownerID, IsPublished: true}
		mockVideos := new(MockVideoRepository)
		mockVideos.On("FindByID", mock.Anything, owned.ID).Return(owned, nil)
		mockHistory := new(MockWatchHistoryRepository)

		svc := NewVideoService(mockVideos, new(MockUserRepository), mockHistory, &fakeUploader{}, media.NewValidator())
		_, err := svc.Get(context.Background(), owned.ID, ownerID)

		assert.NoError(t, err)
		mockVideos.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
		mockHistory.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("unpublished video hidden from non-owners", func(t *testing.T) {
		draft := &model.Video{ID: uuid.New(), OwnerID: ownerID, IsPublished: false}
		mockVideos := new(MockVideoRepository)
		mockVideos.On("FindByID", mock.Anything, draft.ID).Return(draft, nil)

		svc := NewVideoService(mockVideos, new(MockUserRepository), new(MockWatchHistoryRepository), &fakeUploader{}, media.NewValidator())
		_, err := svc.Get(context.Background(), draft.ID, viewerID)

		assert.ErrorIs(t, err, apperrors.ErrVideoNotFound)
	})

	t.Run("missing video", func(t *testing.T) {
		missing := uuid.New()
		mockVideos := new(MockVideoRepository)
		mockVideos.On("FindByID", mock.Anything, missing).Return(nil, gorm.ErrRecordNotFound)

		svc := NewVideoService(mockVideos, new(MockUserRepository), new(MockWatchHistoryRepository), &fakeUploader{}, media.NewValidator())
		_, err := svc.Get(context.Background(), missing, viewerID)

		assert.ErrorIs(t, err, apperrors.ErrVideoNotFound)
	})
}

func TestVideoService_ListByChannel(t *testing.T) {
	channel := testUser(t, "alice", "alice@x.com", "p1")
	videos := []model.Video{{OwnerID: channel.ID, Title: "t", IsPublished: true}}

	mockUsers := new(MockUserRepository)
	mockUsers.On("FindByUsername", mock.Anything, "alice").Return(channel, nil)
	mockVideos := new(MockVideoRepository)
	mockVideos.On("ListByOwner", mock.Anything, channel.ID, true).Return(videos, nil)

	svc := NewVideoService(mockVideos, mockUsers, new(MockWatchHistoryRepository), &fakeUploader{}, media.NewValidator())
	got, err := svc.ListByChannel(context.Background(), "alice")

	assert.NoError(t, err)
	assert.Equal(t, videos, got)
}
