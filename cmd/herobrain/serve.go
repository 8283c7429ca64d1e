package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/herobrain/site/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the website",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		server, err := app.Start(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}

		slog.Info("server started", "addr", "http://"+server.Config.Addr, "testimonials", cfg.TestimonialsSource)

		shutdown := make(chan os.Signal, 2)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		for {
			sig := <-shutdown
			switch sig {
			case os.Interrupt, syscall.SIGTERM:
				cancel()
				shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutCancel()

				if err := server.Stop(shutCtx); err != nil {
					return fmt.Errorf("failed to shut down safely: %w", err)
				}

				return nil
			default:
				slog.Warn("unhandled signal", "signal", sig.String())
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
