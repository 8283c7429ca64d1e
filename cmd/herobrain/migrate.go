package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/herobrain/site/data"
	"github.com/herobrain/site/internal/testimonial/storage"
)

var migrateSeed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Bring the testimonials database schema up to date",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		db, err := storage.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := storage.Migrate(ctx, db.DB); err != nil {
			return err
		}
		slog.Info("migrated")

		if !migrateSeed {
			return nil
		}

		bundled, err := storage.NewStaticStore(ctx, data.FS, data.TestimonialsFile)
		if err != nil {
			return err
		}
		ts, err := bundled.All(ctx)
		if err != nil {
			return err
		}

		store := storage.NewPostgresStore(db)
		for _, t := range ts {
			if _, err := store.Save(ctx, t); err != nil {
				return err
			}
		}
		slog.Info("seeded testimonials", "count", len(ts))

		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "also load the bundled testimonials into the database")
	rootCmd.AddCommand(migrateCmd)
}
