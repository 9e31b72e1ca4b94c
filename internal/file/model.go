package file

import (
	"time"

	"github.com/BDorzho/shareit/internal/pkg/apperror"
)

var (
	ErrNotFound             = apperror.New(apperror.KindNotFound, "file not found")
	ErrThumbnailUnavailable = apperror.New(apperror.KindNotFound, "thumbnail not available for this file")
	ErrEmpty                = apperror.New(apperror.KindInvalidInput, "file is empty")
	ErrTooLarge             = apperror.New(apperror.KindInvalidInput, "file is too large")
	ErrUnsupportedType      = apperror.New(apperror.KindInvalidInput, "file type is not allowed")
)

// File is an uploaded blob. Paths are relative to the storage root.
type File struct {
	ID            string
	UserID        string
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// FileURL returns the public URL for accessing a file by its ID.
func FileURL(id string) string {
	return "/v1/files/" + id
}

// ThumbnailURL returns the public URL for accessing a file's thumbnail by its ID.
func ThumbnailURL(id string) string {
	return "/v1/files/" + id + "/thumbnail"
}
