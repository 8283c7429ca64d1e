package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/herobrain/site/data"
	"github.com/herobrain/site/internal/app/web"
	"github.com/herobrain/site/internal/platform/config"
	httpassets "github.com/herobrain/site/internal/platform/http"
	"github.com/herobrain/site/internal/platform/logging"
	"github.com/herobrain/site/internal/testimonial"
	"github.com/herobrain/site/internal/testimonial/storage"
)

type Server struct {
	Config config.Config
	HTTP   *http.Server

	closeStore func() error
}

// Stop will shut down the server safely.
func (s *Server) Stop(ctx context.Context) error {
	err := s.HTTP.Shutdown(ctx)

	if cerr := s.closeStore(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("failed to close testimonial store: %w", cerr))
	}

	return err
}

// OpenStore sets up the testimonial source cfg points at. Call closeStore when done with the store.
func OpenStore(ctx context.Context, cfg config.Config) (store testimonial.Storage, closeStore func() error, err error) {
	noop := func() error { return nil }

	switch cfg.TestimonialsSource {
	case config.SourceFile:
		s, err := storage.NewStaticStore(ctx, os.DirFS(filepath.Dir(cfg.TestimonialsFile)), filepath.Base(cfg.TestimonialsFile))
		if err != nil {
			return nil, nil, err
		}

		return s, noop, nil
	case config.SourcePostgres:
		db, err := storage.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}

		return storage.NewRetryingStore(storage.NewPostgresStore(db), cfg.StoreTimeout, cfg.StoreRetries), db.Close, nil
	default:
		s, err := storage.NewStaticStore(ctx, data.FS, data.TestimonialsFile)
		if err != nil {
			return nil, nil, err
		}

		return s, noop, nil
	}
}

// Router wires every route of the site to service.
func Router(cfg config.Config, service *testimonial.Service, carousel web.CarouselConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logging.RequestLogger("herobrain", cfg.LogLevel, cfg.LogFormat)))

	httpassets.PublicAssets(r)
	r.Group(web.PagesHandler())
	r.Route("/testimonials", web.TestimonialsHandler(service, carousel))
	r.Route("/api", web.APIHandler(service))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Start wires up the app and starts running it
func Start(ctx context.Context, cfg config.Config) (*Server, error) {
	store, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open testimonial store: %w", err)
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("failed to listen to %q: %w", cfg.Addr, err)
	}
	cfg.Addr = ln.Addr().String() // In case cfg.Addr was random we'll update the config to point to what we ended up using

	server := http.Server{}
	server.BaseContext = func(_ net.Listener) context.Context { return ctx }
	server.Handler = Router(cfg, testimonial.NewService(store), web.CarouselConfig{
		Interval: cfg.CarouselInterval,
		Featured: cfg.CarouselFeatured,
	})

	go (func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
		}
	})()

	return &Server{
		Config:     cfg,
		HTTP:       &server,
		closeStore: closeStore,
	}, nil
}
