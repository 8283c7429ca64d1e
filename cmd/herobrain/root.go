package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/herobrain/site/internal/platform/config"
	"github.com/herobrain/site/internal/platform/logging"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:           "herobrain",
	Short:         "The Hero Brain Education Centre website",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		logging.Init(cfg.LogLevel, cfg.LogFormat)

		return nil
	},
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
