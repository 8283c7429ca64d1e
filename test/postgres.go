package test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/herobrain/site/internal/testimonial/storage"
)

// StartPostgres starts a throwaway postgres with the testimonials schema migrated.
func StartPostgres(ctx context.Context) (err error, conn string, done func()) {
	postgresContainer, err := postgres.Run(ctx,
		"docker.io/postgres:16-alpine",
		postgres.WithDatabase("herobrain"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to start postgres: %w", err), "", func() {}
	}

	terminate := func() {
		if err := testcontainers.TerminateContainer(postgresContainer); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}

	connectionString, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		terminate()
		return fmt.Errorf("failed to get postgres connection string: %w", err), "", func() {}
	}

	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		terminate()
		return fmt.Errorf("failed to open postgres: %w", err), "", func() {}
	}
	defer db.Close()

	if err := storage.Migrate(ctx, db); err != nil {
		terminate()
		return err, "", func() {}
	}

	return nil, connectionString, terminate
}
