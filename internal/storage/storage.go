package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"applicantreview/internal/config"
)

// Package storage contains blob storage abstractions for resume files, with a local
// filesystem backend and an S3-compatible (MinIO) backend.

// ErrObjectNotFound is returned by Get and Delete when no object exists under the key.
var ErrObjectNotFound = errors.New("object not found")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// Storage is a keyed blob store. Keys are slash-separated relative names.
// Put on an existing key replaces the object.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
}

// New builds the backend selected by cfg.Storage.Backend.
func New(cfg *config.AppConfig) (Storage, error) {
	switch cfg.Storage.Backend {
	case "", "local":
		return NewLocal(cfg.Storage.ResumeDir)
	case "minio":
		return NewMinIO(cfg.MinIO)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
