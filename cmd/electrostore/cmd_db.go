package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/electrostore/database/seeders"
	"github.com/shashiranjanraj/electrostore/pkg/app"
	"github.com/shashiranjanraj/electrostore/pkg/migration"
)

// electrostore migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := app.BootDB()
		if err != nil {
			return err
		}
		fmt.Println("Running migrations…")
		ran, err := migration.New(db, os.Stdout).Run()
		if err != nil {
			return err
		}
		if len(ran) == 0 {
			fmt.Println("Nothing to migrate.")
		}
		return nil
	},
}

// electrostore migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := app.BootDB()
		if err != nil {
			return err
		}
		fmt.Println("Rolling back last batch…")
		rolled, err := migration.New(db, os.Stdout).Rollback()
		if err != nil {
			return err
		}
		if len(rolled) == 0 {
			fmt.Println("Nothing to roll back.")
		}
		return nil
	},
}

// electrostore migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := app.BootDB()
		if err != nil {
			return err
		}
		rows, err := migration.New(db, nil).Status()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "RAN\tBATCH\tMIGRATION")
		for _, row := range rows {
			ran, batch := "No", "-"
			if row.Ran {
				ran, batch = "Yes", fmt.Sprint(row.Batch)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", ran, batch, row.Name)
		}
		return w.Flush()
	},
}

// electrostore seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with the demo catalogue and account",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := app.BootDB()
		if err != nil {
			return err
		}
		fmt.Println("Running seeders…")
		if err := seeders.RunAll(context.Background(), db, os.Stdout); err != nil {
			return err
		}
		fmt.Printf("Demo login: %s / %s\n", seeders.DemoUsername, seeders.DemoPassword)
		return nil
	},
}
