// Package storage holds the archive blob store: MinIO in production, a
// directory tree under MEDIA_ROOT for single-host installs.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned when a key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, or -1.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage addresses objects by slash-separated keys such as
// "uploads/spd/2024/01-Januari/SPD_Ani_Jakarta_2024-01-15.pdf".
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	Exists(ctx context.Context, key string) (bool, error)
	// Delete removes an object by key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Move renames src to dst, overwriting dst.
	Move(ctx context.Context, src, dst string) error
	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
}

const pdfContentType = "application/pdf"
