// Package logger provides the store's structured, levelled logger built on
// log/slog.
//
// Every request gets a child logger tagged with its request_id (see
// middleware.Logger), so handlers and services log through WithCtx:
//
//	log := logger.WithCtx(ctx)
//	log.Info("order placed", "order_id", order.ID, "total", order.TotalAmount)
//	// → time=... level=INFO msg="order placed" request_id=a1b2c3d4 order_id=7 total=25.00
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/electrostore/config"
)

var L *slog.Logger

// sink is the optional MongoDB handler installed by AttachMongo.
var sink *MongoHandler

func init() {
	L = slog.New(baseHandler())
	slog.SetDefault(L)
}

func baseHandler() slog.Handler {
	if config.IsProduction() {
		// structured JSON for log aggregators
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// AttachMongo fans every log record out to a MongoDB collection in addition
// to stdout. Call Close on shutdown to flush pending documents.
func AttachMongo(uri, db string) error {
	h, err := NewMongoHandler(uri, db, "logs")
	if err != nil {
		return err
	}
	sink = h
	L = slog.New(NewMultiHandler(baseHandler(), h))
	slog.SetDefault(L)
	return nil
}

// Close flushes and disconnects the Mongo sink, if any.
func Close() {
	if sink != nil {
		sink.Close()
		sink = nil
	}
}

type ctxKey struct{}

// WithCtx returns the request-scoped logger stored by the Logger middleware,
// or the base logger when ctx carries none.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
