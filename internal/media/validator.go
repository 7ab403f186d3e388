package media

import (
	"path/filepath"
	"strings"

	"vidtube/internal/errors"
)

// Validator checks uploaded files before they reach the media host.
type Validator struct{}

// NewValidator creates a new media validator.
func NewValidator() *Validator {
	return &Validator{}
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
}

// ValidateImage checks that the file looks like a supported image.
func (v *Validator) ValidateImage(filename, contentType string) error {
	if !imageExtensions[strings.ToLower(filepath.Ext(filename))] {
		return errors.ErrInvalidUpload
	}
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return errors.ErrInvalidUpload
	}
	return nil
}

// ValidateVideo checks that the file looks like a supported video.
func (v *Validator) ValidateVideo(filename, contentType string) error {
	if !videoExtensions[strings.ToLower(filepath.Ext(filename))] {
		return errors.ErrInvalidUpload
	}
	if contentType != "" && !strings.HasPrefix(contentType, "video/") {
		return errors.ErrInvalidUpload
	}
	return nil
}
