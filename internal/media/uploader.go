package media

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"vidtube/internal/errors"
)

// ErrUnavailable is returned when the media host rejects or cannot take an upload.
var ErrUnavailable = errors.ErrMediaUnavailable

// Uploader stores a media file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, kind, filename, contentType string, body io.Reader) (string, error)
}

// File is an incoming upload handed from the transport layer to services.
type File struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// storageKey builds a date-bucketed object key like avatar/2026/08/31/<uuid>.png.
func storageKey(kind, ext string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("%s/%d/%02d/%02d/%s%s", kind, d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}
