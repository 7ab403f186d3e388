package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vidtube/internal/model"
)

// VideoRepository defines video persistence operations.
type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Video, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, publishedOnly bool) ([]model.Video, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

type videoRepository struct {
	db *gorm.DB
}

// NewVideoRepository builds a GORM-backed repository.
func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, video *model.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

func (r *videoRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	var video model.Video
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&video).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, publishedOnly bool) ([]model.Video, error) {
	q := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}

	var videos []model.Video
	if err := q.Order("created_at DESC").Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *videoRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Video{}).
		Where("id = ?", id).
		Update("views", gorm.Expr("views + 1")).Error
}
