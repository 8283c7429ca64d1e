package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/herobrain/site/internal/app"
	"github.com/herobrain/site/internal/testimonial"
)

var (
	listIncludePending bool
	listFeatured       bool
	listJSON           bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the testimonials in the order the site shows them",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		store, closeStore, err := app.OpenStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		ts, err := testimonial.NewService(store).Fetch(ctx, testimonial.FetchOptions{IncludePending: listIncludePending})
		if err != nil {
			return err
		}

		if listFeatured {
			ts = testimonial.Featured(ts, cfg.CarouselFeatured)
		}

		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(ts)
		}

		if len(ts) == 0 {
			fmt.Println("No testimonials found.")
			return nil
		}

		for i, t := range ts {
			fmt.Printf("%d. %s (%d★) %s", i+1, t.Author, t.Stars(), t.ID)
			if t.Status == testimonial.StatusPending {
				fmt.Print(" [pending]")
			}
			fmt.Println()

			quote := []rune(t.Quote)
			if len(quote) > 120 {
				quote = append(quote[:117], []rune("...")...)
			}
			fmt.Printf("   \"%s\"\n\n", string(quote))
		}

		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listIncludePending, "include-pending", false, "also list testimonials waiting for approval")
	listCmd.Flags().BoolVar(&listFeatured, "featured", false, "only list what the carousel rotates through")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print as JSON")
	rootCmd.AddCommand(listCmd)
}
