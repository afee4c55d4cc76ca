// Package listeners reacts to domain events after they commit.
package listeners

import (
	"context"

	"github.com/shashiranjanraj/electrostore/app/jobs"
	"github.com/shashiranjanraj/electrostore/app/models"
	"github.com/shashiranjanraj/electrostore/app/services"
	"github.com/shashiranjanraj/electrostore/pkg/cache"
	"github.com/shashiranjanraj/electrostore/pkg/event"
	"github.com/shashiranjanraj/electrostore/pkg/logger"
	"github.com/shashiranjanraj/electrostore/pkg/metrics"
	"github.com/shashiranjanraj/electrostore/pkg/queue"
)

// Register attaches every listener. Call once at boot.
func Register() {
	event.Listen(services.EventOrderPlaced, LogOrder)
	event.Listen(services.EventOrderPlaced, CountOrder)
	event.Listen(services.EventOrderPlaced, FlushCatalog)
	event.Listen(services.EventOrderPlaced, QueueConfirmation)
}

func LogOrder(ctx context.Context, payload interface{}) {
	o, ok := payload.(*models.Order)
	if !ok {
		return
	}
	logger.WithCtx(ctx).Info("order placed",
		"order_id", o.ID,
		"user_id", o.UserID,
		"items", len(o.Items),
		"total", o.TotalAmount.StringFixed(2),
	)
}

func CountOrder(_ context.Context, payload interface{}) {
	o, ok := payload.(*models.Order)
	if !ok {
		return
	}
	metrics.OrdersPlaced.Inc()
	metrics.OrderRevenue.Add(o.TotalAmount.InexactFloat64())
}

// FlushCatalog drops cached catalog pages; they show stock levels.
func FlushCatalog(ctx context.Context, _ interface{}) {
	if err := cache.Flush(ctx, services.CatalogCachePrefix); err != nil {
		logger.WithCtx(ctx).Warn("catalog cache flush failed", "error", err)
	}
}

// QueueConfirmation hands the confirmation email to the job queue so the
// checkout response never waits on the mail server.
func QueueConfirmation(ctx context.Context, payload interface{}) {
	o, ok := payload.(*models.Order)
	if !ok {
		return
	}
	if err := queue.Dispatch(ctx, &jobs.OrderConfirmation{OrderID: o.ID}); err != nil {
		logger.WithCtx(ctx).Error("queue order confirmation", "order_id", o.ID, "error", err)
	}
}
