package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("object not found")

// FileInfo represents metadata about a stored file.
type FileInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ContentType  string
}

// Storage defines the interface for the object stores that hold directory
// data files.
type Storage interface {
	// Write stores content from the reader with the given key.
	// The size parameter is the expected content size (-1 if unknown).
	Write(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Read retrieves content for the given key.
	// The caller is responsible for closing the returned ReadCloser.
	Read(ctx context.Context, key string) (io.ReadCloser, error)

	// Stat returns metadata for the key, or ErrNotFound.
	Stat(ctx context.Context, key string) (FileInfo, error)

	// Exists checks if content with the given key exists.
	Exists(ctx context.Context, key string) (bool, error)
}

// New builds the storage backend named by driver ("local" or "s3").
func New(ctx context.Context, driver string, local LocalConfig, s3cfg S3Config) (Storage, error) {
	switch driver {
	case "", "local":
		return NewLocalStorage(local)
	case "s3":
		return NewS3Storage(ctx, s3cfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", driver)
	}
}
