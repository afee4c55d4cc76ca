package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/electrostore/pkg/app"
)

var importConcurrencyFlag int

// electrostore product:image <slug> <file>
var productImageCmd = &cobra.Command{
	Use:   "product:image <slug> <file>",
	Short: "Upload an image and attach it to a product",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := app.Boot(ctx)
		if err != nil {
			return err
		}
		defer a.Shutdown()

		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()

		path, err := a.Services.Images.Attach(ctx, args[0], filepath.Base(args[1]), f)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		fmt.Printf("✅  %s → %s\n", args[0], path)
		return nil
	},
}

// electrostore product:images <dir>
var productImagesCmd = &cobra.Command{
	Use:   "product:images <dir>",
	Short: "Attach every <slug>.<ext> image in a directory to its product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := app.Boot(ctx)
		if err != nil {
			return err
		}
		defer a.Shutdown()

		res, err := a.Services.Images.ImportDir(ctx, args[0], importConcurrencyFlag)
		for _, slug := range res.Attached {
			fmt.Println("  • attached", slug)
		}
		for _, name := range res.Skipped {
			fmt.Println("  • skipped ", name)
		}
		fmt.Printf("%d attached, %d skipped\n", len(res.Attached), len(res.Skipped))
		return err
	},
}

func init() {
	productImagesCmd.Flags().IntVarP(&importConcurrencyFlag, "concurrency", "c", 4, "Uploads in flight at once")
}
