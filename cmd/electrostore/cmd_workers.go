package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/electrostore/app/tasks"
	"github.com/shashiranjanraj/electrostore/config"
	"github.com/shashiranjanraj/electrostore/pkg/app"
	"github.com/shashiranjanraj/electrostore/pkg/middleware"
	"github.com/shashiranjanraj/electrostore/pkg/queue"
	"github.com/shashiranjanraj/electrostore/pkg/schedule"
)

var queueWorkersFlag int

// electrostore queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Run background job workers without the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := app.Boot(ctx)
		if err != nil {
			return err
		}
		defer a.Shutdown()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 1
		}

		fmt.Printf("🚀 Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		wait := queue.Start(ctx, workers)

		<-ctx.Done()
		wait()
		fmt.Println("\n⚡ Queue worker stopped.")
		return nil
	},
}

// electrostore schedule:list
var scheduleListCmd = &cobra.Command{
	Use:   "schedule:list",
	Short: "List the maintenance tasks serve runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := schedule.New()
		tasks.Register(s, nil, middleware.NewLimiter(config.RateLimit(), time.Minute), config.LowStockThreshold())

		list := s.List()
		if len(list) == 0 {
			fmt.Println("No scheduled tasks registered.")
			return nil
		}
		for _, t := range list {
			fmt.Println("  •", t)
		}
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 2, "Number of concurrent workers")
}
