// Package tasks registers the periodic maintenance run by `serve`.
package tasks

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/electrostore/app/repositories"
	"github.com/shashiranjanraj/electrostore/pkg/logger"
	"github.com/shashiranjanraj/electrostore/pkg/metrics"
	"github.com/shashiranjanraj/electrostore/pkg/middleware"
	"github.com/shashiranjanraj/electrostore/pkg/schedule"
)

// Register adds the storefront's tasks to s. limiter may be nil.
func Register(s *schedule.Scheduler, db *gorm.DB, limiter *middleware.Limiter, lowStock int) {
	if limiter != nil {
		s.Every(time.Minute).Name("rate-limit-sweep").Run(func(context.Context) {
			limiter.Sweep(time.Now())
		})
	}
	s.Every(time.Hour).Name("low-stock-report").WithoutOverlapping().Run(LowStockReport(db, lowStock))
}

// LowStockReport logs every active product at or below threshold and
// publishes the count as a gauge.
func LowStockReport(db *gorm.DB, threshold int) schedule.Task {
	products := repositories.NewProductRepository(db)
	return func(ctx context.Context) {
		low, err := products.LowStock(ctx, threshold)
		if err != nil {
			logger.WithCtx(ctx).Error("low stock report failed", "error", err)
			return
		}
		metrics.LowStockProducts.Set(float64(len(low)))
		for _, p := range low {
			logger.WithCtx(ctx).Warn("low stock", "product_id", p.ID, "slug", p.Slug, "stock", p.StockQuantity)
		}
	}
}
