package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotExist    = errors.New("storage: object does not exist")
	ErrInvalidPath = errors.New("storage: invalid path")
)

// Storage stores blobs under slash-separated relative paths.
type Storage interface {
	Save(ctx context.Context, path string, content io.Reader) error
	// Get returns ErrNotExist when nothing is stored under path.
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete is a no-op for a missing path.
	Delete(ctx context.Context, path string) error
}
