package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/herobrain/site/internal/places"
	"github.com/herobrain/site/internal/testimonial"
	"github.com/herobrain/site/internal/testimonial/storage"
)

var syncFlags struct {
	apiKey   string
	placeID  string
	language string
	file     string
	dryRun   bool
	toDB     bool
}

var syncReviewsCmd = &cobra.Command{
	Use:   "sync-reviews",
	Short: "Fetch the latest Google reviews and merge them into the testimonials",
	Long: `Fetches the reviews of the place from the Google Places Details API (at most
five, the most helpful ones), turns them into approved testimonials and merges
them with the existing ones. Testimonials already present are left as they are.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		apiKey := orDefault(syncFlags.apiKey, cfg.GoogleAPIKey)
		placeID := orDefault(syncFlags.placeID, cfg.GooglePlaceID)
		if apiKey == "" || placeID == "" {
			return errors.New("an API key and a place ID are required, use --api-key and --place-id or GOOGLE_API_KEY and GOOGLE_PLACE_ID")
		}
		file := orDefault(syncFlags.file, cfg.TestimonialsFile)

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		existing, err := loadExisting(ctx, file)
		if err != nil {
			return err
		}
		slog.Info("loaded existing testimonials", "file", file, "count", len(existing))

		reviews, err := places.NewClient(apiKey).Reviews(ctx, placeID, syncFlags.language)
		if err != nil {
			return fmt.Errorf("failed to fetch reviews: %w", err)
		}
		slog.Info("fetched reviews", "count", len(reviews))

		incoming := places.NormalizeAll(reviews)
		merged, added := testimonial.Merge(existing, incoming)
		slog.Info("merged reviews", "added", added, "total", len(merged))

		switch {
		case syncFlags.dryRun:
			slog.Info("dry run, not writing anything")
		case syncFlags.toDB:
			if err := saveToDB(ctx, incoming); err != nil {
				return err
			}
			slog.Info("saved reviews to the database")
		default:
			if err := storage.WriteFile(file, merged); err != nil {
				return err
			}
			slog.Info("updated testimonials written", "file", file)
		}

		for i, t := range incoming {
			quote := []rune(t.Quote)
			if len(quote) > 60 {
				quote = quote[:60]
			}
			fmt.Printf("[Fetched #%d] %s (%d★): %s...\n", i+1, t.Author, t.Rating, string(quote))
		}

		return nil
	},
}

// loadExisting reads the testimonials in file, a missing file has none.
func loadExisting(ctx context.Context, file string) ([]testimonial.Testimonial, error) {
	store, err := storage.NewStaticStore(ctx, os.DirFS(filepath.Dir(file)), filepath.Base(file))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return store.All(ctx)
}

func saveToDB(ctx context.Context, ts []testimonial.Testimonial) error {
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required with --to-db")
	}

	db, err := storage.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	store := storage.NewPostgresStore(db)
	existing, err := store.All(ctx)
	if err != nil {
		return err
	}

	known := make(map[string]bool, len(existing))
	for _, t := range existing {
		known[t.ID] = true
	}

	for _, t := range ts {
		if known[t.ID] {
			continue
		}
		if _, err := store.Save(ctx, t); err != nil {
			return err
		}
	}

	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}

	return s
}

func init() {
	f := syncReviewsCmd.Flags()
	f.StringVar(&syncFlags.apiKey, "api-key", "", "Google Places API key (or set GOOGLE_API_KEY)")
	f.StringVar(&syncFlags.placeID, "place-id", "", "Google Place ID (or set GOOGLE_PLACE_ID)")
	f.StringVar(&syncFlags.language, "language", "en", "language code of the reviews")
	f.StringVar(&syncFlags.file, "file", "", "testimonials file to merge into (defaults to TESTIMONIALS_FILE)")
	f.BoolVar(&syncFlags.dryRun, "dry-run", false, "don't write anything, just show what was fetched")
	f.BoolVar(&syncFlags.toDB, "to-db", false, "save the new reviews to the database instead of the file")
	rootCmd.AddCommand(syncReviewsCmd)
}
