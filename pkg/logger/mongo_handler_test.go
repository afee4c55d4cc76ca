package logger

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoHandlerLiftsIDs(t *testing.T) {
	h := &MongoHandler{queue: make(chan LogDocument, 1)}
	log := slog.New(h).With("request_id", "ab12").WithGroup("order")

	log.Info("order placed", "order_id", 7, "user_id", 3, "product_id", 11, "job", "order.confirmation", "total", "25.00")

	select {
	case doc := <-h.queue:
		assert.Equal(t, "order placed", doc.Msg)
		assert.Equal(t, "INFO", doc.Level)
		assert.Equal(t, "ab12", doc.RequestID)
		assert.EqualValues(t, 7, doc.OrderID)
		assert.EqualValues(t, 3, doc.UserID)
		assert.EqualValues(t, 11, doc.ProductID)
		assert.Equal(t, "order.confirmation", doc.Job)
		assert.Equal(t, "25.00", doc.Attrs["order.total"])
	case <-time.After(time.Second):
		t.Fatal("no document queued")
	}
}

func TestMongoHandlerDropsWhenFull(t *testing.T) {
	h := &MongoHandler{queue: make(chan LogDocument, 1)}
	log := slog.New(h)

	log.Info("first")
	log.Info("second")
	require.Len(t, h.queue, 1)
	assert.Equal(t, "first", (<-h.queue).Msg)

	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestMultiHandlerFansOut(t *testing.T) {
	a := &MongoHandler{queue: make(chan LogDocument, 1)}
	b := &MongoHandler{queue: make(chan LogDocument, 1)}

	slog.New(NewMultiHandler(a, b)).Warn("low stock", "product_id", 4)

	assert.EqualValues(t, 4, (<-a.queue).ProductID)
	assert.EqualValues(t, 4, (<-b.queue).ProductID)
}
