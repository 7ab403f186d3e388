package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered account and its channel identity.
// Username is stored lowercase; PasswordHash and RefreshToken are never serialized.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:64;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FullName     string    `json:"full_name" gorm:"size:255;not null;index"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Avatar       string    `json:"avatar" gorm:"size:512;not null"`
	CoverImage   string    `json:"cover_image,omitempty" gorm:"size:512"`
	// RefreshToken holds the single currently valid refresh token, empty when
	// logged out. Rotation overwrites it; there is never more than one.
	RefreshToken string    `json:"-" gorm:"size:1024"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
