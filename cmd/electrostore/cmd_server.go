package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	gql "github.com/graphql-go/graphql"
	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/electrostore/app/routes"
	"github.com/shashiranjanraj/electrostore/app/services"
	"github.com/shashiranjanraj/electrostore/config"
	"github.com/shashiranjanraj/electrostore/internal/server"
	"github.com/shashiranjanraj/electrostore/pkg/app"
	"github.com/shashiranjanraj/electrostore/pkg/router"
)

var (
	servePortFlag    string
	serveWorkersFlag int
)

// electrostore serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the storefront (HTTP, queue workers and scheduler)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := app.Boot(ctx)
		if err != nil {
			return err
		}
		defer a.Shutdown()

		workers := serveWorkersFlag
		if !cmd.Flags().Changed("workers") {
			workers = config.QueueWorkers()
		}
		return server.Run(ctx, a, server.Options{Port: servePortFlag, Workers: workers})
	},
}

// electrostore route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := router.New()
		routes.Register(r, services.New(nil), gql.Schema{})

		infos := r.Routes()
		if len(infos) == 0 {
			fmt.Println("No named routes registered.")
			return nil
		}

		sort.Slice(infos, func(i, j int) bool {
			if infos[i].Path != infos[j].Path {
				return infos[i].Path < infos[j].Path
			}
			return infos[i].Method < infos[j].Method
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePortFlag, "port", "p", "", "HTTP port (default APP_PORT)")
	serveCmd.Flags().IntVarP(&serveWorkersFlag, "workers", "w", 0, "Queue workers to run in-process (default QUEUE_WORKERS)")
}
