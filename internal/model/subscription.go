package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription links a subscriber to the channel they follow.
type Subscription struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	SubscriberID uuid.UUID `json:"subscriber_id" gorm:"type:char(36);not null;uniqueIndex:idx_subscriber_channel;index"`
	ChannelID    uuid.UUID `json:"channel_id" gorm:"type:char(36);not null;uniqueIndex:idx_subscriber_channel;index"`
	CreatedAt    time.Time `json:"created_at"`

	Subscriber User `json:"-" gorm:"foreignKey:SubscriberID"`
	Channel    User `json:"-" gorm:"foreignKey:ChannelID"`
}

// BeforeCreate sets UUID before creating the record.
func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
