package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vidtube/internal/model"
)

// WatchHistoryRepository defines watch history persistence operations.
type WatchHistoryRepository interface {
	Append(ctx context.Context, entry *model.WatchHistory) error
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]model.WatchHistory, error)
}

type watchHistoryRepository struct {
	db *gorm.DB
}

// NewWatchHistoryRepository builds a GORM-backed repository.
func NewWatchHistoryRepository(db *gorm.DB) WatchHistoryRepository {
	return &watchHistoryRepository{db: db}
}

func (r *watchHistoryRepository) Append(ctx context.Context, entry *model.WatchHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *watchHistoryRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]model.WatchHistory, error) {
	var entries []model.WatchHistory
	err := r.db.WithContext(ctx).
		Preload("Video").
		Where("user_id = ?", userID).
		Order("watched_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
