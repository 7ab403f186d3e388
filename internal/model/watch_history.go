package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WatchHistory records that a user watched a video.
type WatchHistory struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`
	VideoID   uuid.UUID `json:"video_id" gorm:"type:char(36);not null;index"`
	WatchedAt time.Time `json:"watched_at" gorm:"autoCreateTime;index"`

	Video Video `json:"video" gorm:"foreignKey:VideoID"`
}

// BeforeCreate sets UUID before creating the record.
func (w *WatchHistory) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
