package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vidtube/internal/cache"
	apperrors "vidtube/internal/errors"
	"vidtube/internal/model"
	"vidtube/internal/repository"
)

// SubscriptionService manages channel subscriptions.
type SubscriptionService interface {
	// Toggle subscribes when no subscription exists and unsubscribes otherwise.
	// Returns whether the caller is subscribed after the call.
	Toggle(ctx context.Context, subscriberID uuid.UUID, channelUsername string) (bool, error)
}

type subscriptionService struct {
	subRepo  repository.SubscriptionRepository
	userRepo repository.UserRepository
	cache    *cache.Client
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(subRepo repository.SubscriptionRepository, userRepo repository.UserRepository, cacheClient *cache.Client) SubscriptionService {
	return &subscriptionService{
		subRepo:  subRepo,
		userRepo: userRepo,
		cache:    cacheClient,
	}
}

func (s *subscriptionService) Toggle(ctx context.Context, subscriberID uuid.UUID, channelUsername string) (bool, error) {
	channel, err := s.userRepo.FindByUsername(ctx, channelUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.ErrUserNotFound
		}
		return false, fmt.Errorf("find channel: %w", err)
	}

	if channel.ID == subscriberID {
		return false, apperrors.ErrSelfSubscription
	}

	subscribed := false
	_, err = s.subRepo.Find(ctx, subscriberID, channel.ID)
	switch {
	case err == nil:
		if err := s.subRepo.Delete(ctx, subscriberID, channel.ID); err != nil {
			return false, fmt.Errorf("unsubscribe: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub := &model.Subscription{SubscriberID: subscriberID, ChannelID: channel.ID}
		if err := s.subRepo.Create(ctx, sub); err != nil {
			return false, fmt.Errorf("subscribe: %w", err)
		}
		subscribed = true
	default:
		return false, fmt.Errorf("find subscription: %w", err)
	}

	// Subscriber counts changed; drop the cached stats for the channel.
	_ = s.cache.Delete(ctx, fmt.Sprintf("channel:%s", channel.Username))

	return subscribed, nil
}
