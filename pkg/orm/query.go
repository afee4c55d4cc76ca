// Package orm holds query helpers shared by the repositories: page-number
// pagination and read-through caching on top of GORM.
package orm

import (
	"context"
	"strconv"
	"time"

	"github.com/shashiranjanraj/electrostore/pkg/cache"
	"gorm.io/gorm"
)

// Page is one page of a paginated result.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
	HasNext  bool  `json:"has_next"`
	HasPrev  bool  `json:"has_previous"`
}

// ParsePage turns a raw ?page= value into a page number. Anything that is
// not a positive integer becomes 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Paginate counts q, clamps page into [1, LastPage] and loads that page
// ordered by order. An empty result is a single empty page. Scopes (such as
// preloads) apply to the page query only, never to the count.
func Paginate[T any](ctx context.Context, q *gorm.DB, order string, page, perPage int, scopes ...func(*gorm.DB) *gorm.DB) (Page[T], error) {
	if perPage < 1 {
		perPage = 10
	}
	base := q.WithContext(ctx).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return Page[T]{}, err
	}

	last := int((total + int64(perPage) - 1) / int64(perPage))
	if last < 1 {
		last = 1
	}
	if page < 1 {
		page = 1
	}
	if page > last {
		page = last
	}

	items := make([]T, 0, perPage)
	find := base.Scopes(scopes...)
	if order != "" {
		find = find.Order(order)
	}
	if err := find.Offset((page - 1) * perPage).Limit(perPage).Find(&items).Error; err != nil {
		return Page[T]{}, err
	}

	return Page[T]{
		Items:    items,
		Page:     page,
		PerPage:  perPage,
		Total:    total,
		LastPage: last,
		HasNext:  page < last,
		HasPrev:  page > 1,
	}, nil
}

// Cached runs load through the cache under key.
func Cached[T any](ctx context.Context, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	return cache.Remember(ctx, key, ttl, load)
}
