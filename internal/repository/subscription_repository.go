package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vidtube/internal/model"
)

// SubscriptionRepository defines subscription persistence operations.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *model.Subscription) error
	Delete(ctx context.Context, subscriberID, channelID uuid.UUID) error
	Find(ctx context.Context, subscriberID, channelID uuid.UUID) (*model.Subscription, error)
	CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error)
	CountSubscribedTo(ctx context.Context, subscriberID uuid.UUID) (int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository builds a GORM-backed repository.
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *model.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *subscriptionRepository) Delete(ctx context.Context, subscriberID, channelID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&model.Subscription{}).Error
}

func (r *subscriptionRepository) Find(ctx context.Context, subscriberID, channelID uuid.UUID) (*model.Subscription, error) {
	var sub model.Subscription
	if err := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error
	return count, err
}

func (r *subscriptionRepository) CountSubscribedTo(ctx context.Context, subscriberID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&count).Error
	return count, err
}
