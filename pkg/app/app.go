// Package app boots the storefront's shared infrastructure in one place so
// every CLI command starts from the same state:
//
//	a, err := app.Boot(ctx)
//	if err != nil { return err }
//	defer a.Shutdown()
//
// The database is required. Redis, S3, SES/SMTP and the MongoDB log sink are
// optional: when one cannot be reached Boot logs a warning and the in-process
// fallback (memory cache, local disk, log mailer, memory queue) stays active.
package app

import (
	"context"
	"fmt"

	gql "github.com/graphql-go/graphql"
	"gorm.io/gorm"

	catalogql "github.com/shashiranjanraj/electrostore/app/graphql"
	"github.com/shashiranjanraj/electrostore/app/jobs"
	"github.com/shashiranjanraj/electrostore/app/listeners"
	"github.com/shashiranjanraj/electrostore/app/services"
	"github.com/shashiranjanraj/electrostore/config"
	"github.com/shashiranjanraj/electrostore/pkg/cache"
	"github.com/shashiranjanraj/electrostore/pkg/database"
	"github.com/shashiranjanraj/electrostore/pkg/logger"
	"github.com/shashiranjanraj/electrostore/pkg/mail"
	"github.com/shashiranjanraj/electrostore/pkg/queue"
	"github.com/shashiranjanraj/electrostore/pkg/storage"
)

// App is a booted storefront.
type App struct {
	DB       *gorm.DB
	Services *services.Services
	Schema   gql.Schema
}

// BootDB loads config and opens the database. Migration and seed commands
// need nothing else.
func BootDB() (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.Connect(); err != nil {
		return nil, err
	}
	return database.DB, nil
}

// Boot connects every backend and wires listeners and jobs.
func Boot(ctx context.Context) (*App, error) {
	db, err := BootDB()
	if err != nil {
		return nil, err
	}

	if uri := config.MongoLogURI(); uri != "" {
		if err := logger.AttachMongo(uri, config.MongoLogDB()); err != nil {
			logger.Warn("mongo log sink disabled", "error", err)
		}
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, using in-memory cache and sessions", "error", err)
	}
	if err := storage.Connect(ctx); err != nil {
		logger.Warn("storage fell back to the local disk", "error", err)
	}
	if err := mail.Connect(ctx); err != nil {
		logger.Warn("mail fell back to the log driver", "error", err)
	}

	if config.Get("QUEUE_DRIVER", "memory") == "redis" {
		if cache.RDB != nil {
			queue.SetDriver(queue.NewRedisDriver(cache.RDB))
		} else {
			logger.Warn("QUEUE_DRIVER=redis but redis is unavailable, using the memory queue")
		}
	}
	queue.UseDB(db)

	return New(db)
}

// New builds the service layer, GraphQL schema, listeners and job registry
// on an already-open database. Tests call it with an in-memory SQLite db.
func New(db *gorm.DB) (*App, error) {
	svc := services.New(db)

	schema, err := catalogql.NewSchema(svc.Catalog)
	if err != nil {
		return nil, fmt.Errorf("graphql schema: %w", err)
	}

	listeners.Register()
	jobs.Register(db)

	return &App{DB: db, Services: svc, Schema: schema}, nil
}

// Shutdown flushes the log sink and closes connections.
func (a *App) Shutdown() {
	if cache.RDB != nil {
		_ = cache.RDB.Close()
	}
	if err := database.Close(); err != nil {
		logger.Warn("database close", "error", err)
	}
	logger.Close()
}
