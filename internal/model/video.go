package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Video represents an uploaded video and its hosted file locations.
type Video struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	OwnerID     uuid.UUID `json:"owner_id" gorm:"type:char(36);not null;index"`
	VideoFile   string    `json:"video_file" gorm:"size:512;not null"`
	Thumbnail   string    `json:"thumbnail" gorm:"size:512;not null"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	// Duration is the video length in seconds as reported by the uploader.
	Duration    int64     `json:"duration" gorm:"not null;default:0"`
	Views       int64     `json:"views" gorm:"not null;default:0"`
	IsPublished bool      `json:"is_published" gorm:"default:true;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Owner User `json:"-" gorm:"foreignKey:OwnerID"`
}

// BeforeCreate sets UUID before creating the record.
func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
