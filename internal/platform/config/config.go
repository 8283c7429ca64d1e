package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"

	"github.com/herobrain/site/internal/platform/validate"
)

// Where the testimonials are read from.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

type Config struct {
	Addr      string `env:"ADDR" default:"127.0.0.1:3000" validate:"required"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text" validate:"oneof=text json"`

	TestimonialsSource string `env:"TESTIMONIALS_SOURCE" default:"embedded" validate:"oneof=embedded file postgres"`
	TestimonialsFile   string `env:"TESTIMONIALS_FILE" default:"data/testimonials.json" validate:"required_if=TestimonialsSource file"`
	DatabaseURL        string `env:"DATABASE_URL" validate:"required_if=TestimonialsSource postgres"`

	StoreTimeout time.Duration `env:"STORE_TIMEOUT" default:"2s" validate:"gt=0"`
	StoreRetries int           `env:"STORE_RETRIES" default:"3" validate:"min=0"`

	CarouselInterval time.Duration `env:"CAROUSEL_INTERVAL" default:"10s" validate:"gt=0"`
	CarouselFeatured int           `env:"CAROUSEL_FEATURED" default:"5" validate:"min=1"`

	GoogleAPIKey  string `env:"GOOGLE_API_KEY"`
	GooglePlaceID string `env:"GOOGLE_PLACE_ID"`
}

// Default returns the configuration used when nothing is set in the environment.
func Default() Config {
	return Config{
		Addr:               "127.0.0.1:3000",
		LogLevel:           "info",
		LogFormat:          "text",
		TestimonialsSource: SourceEmbedded,
		TestimonialsFile:   "data/testimonials.json",
		StoreTimeout:       2 * time.Second,
		StoreRetries:       3,
		CarouselInterval:   10 * time.Second,
		CarouselFeatured:   5,
	}
}

// Load reads an optional .env file and then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(context.Background(), c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}
