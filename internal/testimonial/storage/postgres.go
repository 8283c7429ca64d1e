package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/go-sqlx/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/herobrain/site/internal/testimonial"
)

//go:embed migrations/*.sql
var migrations embed.FS

// OpenPostgres connects to the database at url.
func OpenPostgres(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return db, nil
}

// Migrate brings the schema up to date.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	return nil
}

// PostgresStore keeps testimonials in the testimonials table, in insertion order.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type testimonialRow struct {
	ID        string       `db:"id"`
	Quote     string       `db:"quote"`
	Author    string       `db:"author"`
	Role      string       `db:"role"`
	Company   string       `db:"company"`
	Rating    int          `db:"rating"`
	Color     string       `db:"color"`
	CreatedAt sql.NullTime `db:"created_at"`
	Status    string       `db:"status"`
}

func toRow(t testimonial.Testimonial) testimonialRow {
	return testimonialRow{
		ID:        t.ID,
		Quote:     t.Quote,
		Author:    t.Author,
		Role:      t.Role,
		Company:   t.Company,
		Rating:    t.Rating,
		Color:     t.Color,
		CreatedAt: sql.NullTime{Time: t.CreatedAt.Time, Valid: !t.CreatedAt.IsZero()},
		Status:    string(t.Status),
	}
}

func (r testimonialRow) testimonial() testimonial.Testimonial {
	t := testimonial.Testimonial{
		ID:      r.ID,
		Quote:   r.Quote,
		Author:  r.Author,
		Role:    r.Role,
		Company: r.Company,
		Rating:  r.Rating,
		Color:   r.Color,
		Status:  testimonial.Status(r.Status),
	}
	if r.CreatedAt.Valid {
		t.CreatedAt = testimonial.NewTimestamp(r.CreatedAt.Time)
	}

	return t
}

func (s *PostgresStore) All(ctx context.Context) ([]testimonial.Testimonial, error) {
	var rows []testimonialRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, quote, author, role, company, rating, color, created_at, status
		FROM testimonials
		ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to select testimonials: %w", err)
	}

	ret := make([]testimonial.Testimonial, 0, len(rows))
	for _, r := range rows {
		ret = append(ret, r.testimonial())
	}

	return ret, nil
}

// Save inserts the testimonial or updates the one with the same ID, keeping its position.
func (s *PostgresStore) Save(ctx context.Context, t testimonial.Testimonial) (testimonial.Testimonial, error) {
	if t.ID == "" {
		return testimonial.Testimonial{}, ErrNoID
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO testimonials (id, quote, author, role, company, rating, color, created_at, status)
		VALUES (:id, :quote, :author, :role, :company, :rating, :color, :created_at, :status)
		ON CONFLICT (id) DO UPDATE SET
			quote = EXCLUDED.quote,
			author = EXCLUDED.author,
			role = EXCLUDED.role,
			company = EXCLUDED.company,
			rating = EXCLUDED.rating,
			color = EXCLUDED.color,
			created_at = EXCLUDED.created_at,
			status = EXCLUDED.status`, toRow(t))
	if err != nil {
		return testimonial.Testimonial{}, fmt.Errorf("failed to save testimonial %q: %w", t.ID, err)
	}

	return t, nil
}
