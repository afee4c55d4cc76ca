package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/shashiranjanraj/electrostore/config"
)

var (
	mu          sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk = "local"
	local       *LocalDisk
)

// Connect boots the local disk and, when S3_BUCKET is set, the s3 disk.
// An s3 failure is returned while local stays usable.
func Connect(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	local = NewLocalDisk(config.StorageLocalRoot(), config.StorageURL())
	disks["local"] = local
	defaultDisk = config.StorageDefault()

	if config.StorageS3Bucket() == "" {
		if defaultDisk != "local" {
			defaultDisk = "local"
			return fmt.Errorf("storage: disk %q requested but S3_BUCKET is empty", config.StorageDefault())
		}
		return nil
	}

	d, err := NewS3Disk(ctx)
	if err != nil {
		defaultDisk = "local"
		return err
	}
	disks["s3"] = d
	return nil
}

// Register installs a disk under name and optionally makes it the default.
func Register(name string, d Disk, makeDefault bool) {
	mu.Lock()
	defer mu.Unlock()
	disks[name] = d
	if ld, ok := d.(*LocalDisk); ok && name == "local" {
		local = ld
	}
	if makeDefault {
		defaultDisk = name
	}
}

// Use returns the named disk.
func Use(name string) (Disk, error) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the configured default disk, booting the local disk
// lazily when Connect was never called.
func Default() Disk {
	mu.RLock()
	d, ok := disks[defaultDisk]
	mu.RUnlock()
	if ok {
		return d
	}

	mu.Lock()
	defer mu.Unlock()
	if local == nil {
		local = NewLocalDisk(config.StorageLocalRoot(), config.StorageURL())
		disks["local"] = local
	}
	return local
}

// Local returns the local disk when it is the one being served, else nil.
func Local() *LocalDisk {
	if ld, ok := Default().(*LocalDisk); ok {
		return ld
	}
	return nil
}

func Put(ctx context.Context, path string, r io.Reader, contentType string) error {
	return Default().Put(ctx, path, r, contentType)
}

func Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return Default().Open(ctx, path)
}

func Delete(ctx context.Context, path string) error { return Default().Delete(ctx, path) }

func URL(path string) string { return Default().URL(path) }

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// ProductImagePath is where a product's image lives, derived from its slug
// and the upload's extension. It fails for non-image extensions.
func ProductImagePath(slug, filename string) (path, contentType string, err error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := imageTypes[ext]
	if !ok {
		return "", "", fmt.Errorf("storage: unsupported image type %q", ext)
	}
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	return "products/" + slug + ext, contentType, nil
}
