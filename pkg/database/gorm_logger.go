package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/electrostore/pkg/logger"
	"github.com/shashiranjanraj/electrostore/pkg/metrics"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger routes GORM's query log through the request-scoped slog logger.
// Only failed and slow queries are logged unless the level is raised to Info.
type GormLogger struct {
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	observe       bool
}

// NewGormLogger returns a logger at Warn level that reports queries slower
// than slow and feeds every query's latency into metrics.DBQueryDuration.
func NewGormLogger(slow time.Duration) *GormLogger {
	return &GormLogger{level: gormlogger.Warn, slowThreshold: slow, observe: true}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		logger.WithCtx(ctx).Info(fmt.Sprintf(msg, args...), "component", "gorm")
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		logger.WithCtx(ctx).Warn(fmt.Sprintf(msg, args...), "component", "gorm")
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		logger.WithCtx(ctx).Error(fmt.Sprintf(msg, args...), "component", "gorm")
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	log := logger.WithCtx(ctx)

	if l.observe {
		sql, _ := fc()
		metrics.ObserveDBQuery(sql, elapsed)
	}

	if l.level <= gormlogger.Silent {
		return
	}

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		log.Error("query failed", "component", "gorm", "error", err, "elapsed", elapsed, "rows", rows, "sql", sql)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		log.Warn("slow query", "component", "gorm", "elapsed", elapsed, "rows", rows, "sql", sql)
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		log.Debug("query", "component", "gorm", "elapsed", elapsed, "rows", rows, "sql", sql)
	}
}
