// Package server runs the storefront process: HTTP, the optional gRPC health
// endpoint, queue workers and the maintenance scheduler, all stopped
// gracefully on SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shashiranjanraj/electrostore/app/controllers"
	"github.com/shashiranjanraj/electrostore/app/tasks"
	"github.com/shashiranjanraj/electrostore/config"
	"github.com/shashiranjanraj/electrostore/internal/kernel"
	"github.com/shashiranjanraj/electrostore/pkg/app"
	grpcserver "github.com/shashiranjanraj/electrostore/pkg/grpc"
	"github.com/shashiranjanraj/electrostore/pkg/logger"
	"github.com/shashiranjanraj/electrostore/pkg/queue"
	"github.com/shashiranjanraj/electrostore/pkg/schedule"
)

const shutdownTimeout = 15 * time.Second

// Options override config values for one run.
type Options struct {
	Port    string
	Workers int
}

// Run serves until ctx is cancelled.
func Run(ctx context.Context, a *app.App, opts Options) error {
	if opts.Port == "" {
		opts.Port = config.AppPort()
	}

	k := kernel.NewHTTPKernel(a.Services, a.Schema, kernel.Options{RateLimit: config.RateLimit()})

	bg, stopBackground := context.WithCancel(context.WithoutCancel(ctx))
	defer stopBackground()

	waitWorkers := func() {}
	if opts.Workers > 0 {
		waitWorkers = queue.Start(bg, opts.Workers)
	}

	tasks.Register(schedule.Default, a.DB, k.Limiter(), config.LowStockThreshold())
	waitScheduler := schedule.Start(bg)

	if port := config.GRPCPort(); port != "" {
		srv, err := grpcserver.Start(port, controllers.Probe)
		if err != nil {
			return err
		}
		defer grpcserver.Stop(srv)
	}

	httpSrv := &http.Server{
		Addr:              ":" + opts.Port,
		Handler:           k.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("electrostore listening", "addr", httpSrv.Addr, "env", config.AppEnv())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := httpSrv.Shutdown(shutdownCtx)

	stopBackground()
	waitWorkers()
	waitScheduler()
	return err
}
