package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/electrostore/app/repositories"
	"github.com/shashiranjanraj/electrostore/pkg/cache"
	"github.com/shashiranjanraj/electrostore/pkg/logger"
	"github.com/shashiranjanraj/electrostore/pkg/storage"
	"github.com/shashiranjanraj/electrostore/pkg/workerpool"
)

// ImageService stores product images on the default disk.
type ImageService struct {
	products *repositories.ProductRepository
}

func NewImageService(db *gorm.DB) *ImageService {
	return &ImageService{products: repositories.NewProductRepository(db)}
}

// Attach uploads r as the image of the product with slug and records its
// path. Inactive products are accepted so images can be staged before launch.
func (s *ImageService) Attach(ctx context.Context, slug, filename string, r io.Reader) (string, error) {
	p, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		return "", notFound(err)
	}

	path, contentType, err := storage.ProductImagePath(p.Slug, filename)
	if err != nil {
		return "", err
	}
	if err := storage.Put(ctx, path, r, contentType); err != nil {
		return "", err
	}
	if err := s.products.SetImage(ctx, p.ID, path); err != nil {
		return "", err
	}
	if err := cache.Flush(ctx, CatalogCachePrefix); err != nil {
		logger.WithCtx(ctx).Warn("catalog cache flush failed", "error", err)
	}
	return path, nil
}

// ImportResult lists what ImportDir did with each file.
type ImportResult struct {
	Attached []string
	Skipped  []string
}

// ImportDir attaches every image in dir to the product whose slug matches the
// file name (iphone-15.jpg → iphone-15). Files without a matching product or
// with a non-image extension are skipped; other failures are joined.
func (s *ImageService) ImportDir(ctx context.Context, dir string, concurrency int) (ImportResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ImportResult{}, err
	}

	var (
		mu  sync.Mutex
		res ImportResult
	)
	record := func(list *[]string, name string) {
		mu.Lock()
		*list = append(*list, name)
		mu.Unlock()
	}

	pool := workerpool.New(concurrency)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if _, _, err := storage.ProductImagePath("x", name); err != nil {
			record(&res.Skipped, name)
			continue
		}
		slug := strings.TrimSuffix(name, filepath.Ext(name))

		err := pool.Go(ctx, func(ctx context.Context) error {
			f, err := os.Open(filepath.Join(dir, name))
			if err != nil {
				return err
			}
			defer f.Close()

			if _, err := s.Attach(ctx, slug, name, f); err != nil {
				if errors.Is(err, ErrNotFound) {
					record(&res.Skipped, name)
					return nil
				}
				return fmt.Errorf("%s: %w", name, err)
			}
			record(&res.Attached, name)
			return nil
		})
		if err != nil {
			break
		}
	}

	err = pool.Wait()
	if err == nil {
		err = ctx.Err()
	}
	sort.Strings(res.Attached)
	sort.Strings(res.Skipped)
	return res, err
}
