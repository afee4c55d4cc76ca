// Package storage keeps product images on a pluggable disk.
//
// Two drivers are available:
//
//   - "local": local filesystem under STORAGE_LOCAL_ROOT, served at /storage
//   - "s3": S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Usage:
//
//	storage.Connect(ctx)
//	path, contentType, err := storage.ProductImagePath("iphone-15", "photo.JPG") // products/iphone-15.jpg
//	err = storage.Put(ctx, path, f, contentType)
//	url := storage.URL(path)
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned when a path has no stored object.
var ErrNotExist = errors.New("storage: file does not exist")

// Disk is the driver contract.
type Disk interface {
	// Put writes r to path, replacing any previous content.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error

	// Open returns a reader for path; ErrNotExist when absent.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	Exists(ctx context.Context, path string) bool

	// Delete removes path. Deleting a missing path is not an error.
	Delete(ctx context.Context, path string) error

	// URL is the public address of path.
	URL(path string) string
}
