// Command local-dev-dependencies runs a seeded postgres in the background for
// working on the site against the database testimonial source.
//
//	local-dev-dependencies             start the daemon, returns when postgres is ready
//	local-dev-dependencies stop        stop the daemon and wait for it to exit
//	local-dev-dependencies -s quit     graceful shutdown through a signal
//	local-dev-dependencies playwright  install the browsers for the end to end tests
//
// Once up, tmp/postgres.env holds the settings for `herobrain serve`.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/playwright-community/playwright-go"
	"github.com/sevlyar/go-daemon"

	"github.com/herobrain/site/data"
	"github.com/herobrain/site/internal/platform/config"
	"github.com/herobrain/site/internal/testimonial/storage"
	"github.com/herobrain/site/test"
)

const (
	postgresStartTimeout = 2 * time.Minute
	envFile              = "tmp/postgres.env"
	// The daemon serves its health check on an address picked by the parent.
	healthcheckEnvName = "HEALTHCHECK_ADDR"
)

var (
	signalFlag = flag.String("s", "", `Send signal to the daemon:
  quit: graceful shutdown
  stop: fast shutdown`)

	postgresUp atomic.Bool
	stopChan   = make(chan struct{}, 1)
	doneChan   = make(chan struct{}, 1)
)

func main() {
	flag.Parse()
	ctx, cancel := context.WithCancel(context.Background())
	daemon.AddCommand(daemon.StringFlag(signalFlag, "quit"), syscall.SIGQUIT, terminate(cancel))
	daemon.AddCommand(daemon.StringFlag(signalFlag, "stop"), syscall.SIGTERM, terminate(cancel))
	if err := os.MkdirAll("tmp", 0o755); err != nil {
		fatal("failed to create tmp", err)
	}

	cntxt := &daemon.Context{
		PidFileName: "tmp/local-dev-dependencies.pid",
		PidFilePerm: 0o644,
		LogFileName: "tmp/local-dev-dependencies.log",
		LogFilePerm: 0o640,
		WorkDir:     "./",
		Umask:       0o27,
		Args:        []string{"herobrain__local-dev-dependencies"},
	}

	if len(daemon.ActiveFlags()) > 0 {
		sendSignal(cntxt)
		return
	}

	switch flag.Arg(0) {
	case "":
	case "stop":
		stop(cntxt)
		return
	case "playwright":
		if err := playwright.Install(); err != nil {
			fatal("failed to install playwright dependencies", err)
		}
		return
	default:
		fatal("unknown subcommand", fmt.Errorf("%q", flag.Arg(0)))
	}

	healthcheckAddr, err := freeAddr()
	if err != nil {
		fatal("failed to find an address for the health check", err)
	}
	cntxt.Env = append(os.Environ(), healthcheckEnvName+"="+healthcheckAddr)

	d, err := cntxt.Reborn()
	if errors.Is(err, daemon.ErrWouldBlock) {
		// Already running, nothing to do.
		return
	}
	if err != nil {
		fatal("unable to run", err)
	}

	if d != nil {
		waitUntilHealthy(healthcheckAddr)
		slog.Info("postgres is up", "settings", envFile)
		return
	}

	defer func() { _ = cntxt.Release() }()
	runDaemon(ctx)
}

func runDaemon(ctx context.Context) {
	slog.Info("up and running")

	errChan := make(chan error, 1)
	go serveHealthcheck(os.Getenv(healthcheckEnvName))
	go runPostgres(errChan)
	go func() {
		if err := daemon.ServeSignals(); err != nil {
			slog.Error("failed to respond to signal", "error", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	case err := <-errChan:
		slog.Error("shutting down", "error", err)
		os.Exit(1)
	}
}

func sendSignal(cntxt *daemon.Context) {
	d, err := cntxt.Search()
	if err != nil {
		fatal("unable to send signal to the daemon", err)
	}

	if err := daemon.SendCommands(d); err != nil {
		fatal("failed to send signal to the daemon", err)
	}
}

func freeAddr() (string, error) {
	ln, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return "", err
	}
	defer ln.Close()

	return ln.Addr().String(), nil
}

// waitUntilHealthy polls the daemon until postgres is up, giving up if the daemon never answers.
func waitUntilHealthy(addr string) {
	ctx, cancel := context.WithTimeout(context.Background(), postgresStartTimeout+2*time.Second)
	defer cancel()

	var refused int
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/", nil)
		if err != nil {
			fatal("failed to create health check request", err)
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			if !strings.Contains(err.Error(), "connection refused") {
				fatal("failed to call the health check", err)
			}

			refused++
			if refused >= 20 {
				fatal("the daemon never answered, check tmp/local-dev-dependencies.log", err)
			}
			time.Sleep(100 * time.Millisecond)
			continue
		}
		refused = 0

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			slog.Warn("failed to read health check body", "error", err)
		}

		if strings.HasSuffix(string(body), "true") {
			return
		}

		time.Sleep(100 * time.Millisecond)
	}
}

func stop(cntxt *daemon.Context) {
	proc, err := cntxt.Search()
	if errors.Is(err, fs.ErrNotExist) {
		// No pid file so nothing is running.
		return
	}
	if err != nil {
		fatal("failed to find process", err)
	}
	if proc == nil {
		return
	}

	if err := proc.Kill(); err != nil {
		fatal("failed to kill process", err)
	}

	slog.Info("waiting for the local dev dependencies to shut down")
	for {
		alive, err := cntxt.Search()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			fatal("failed to look for the process", err)
		}
		if alive == nil {
			return
		}

		time.Sleep(100 * time.Millisecond)
	}
}

func serveHealthcheck(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "postgresUp=%t", postgresUp.Load())
	})

	slog.Info("serving health check", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("health check stopped", "error", err)
	}
}

// runPostgres starts postgres, seeds it with the bundled testimonials and
// writes the settings to use it, then keeps it up until told to stop.
func runPostgres(errChan chan<- error) {
	ctx, cancel := context.WithTimeout(context.Background(), postgresStartTimeout)
	defer cancel()

	err, conn, done := test.StartPostgres(ctx)
	if err != nil {
		errChan <- fmt.Errorf("failed to start postgres: %w", err)
		return
	}

	if err := seed(ctx, conn); err != nil {
		done()
		errChan <- err
		return
	}

	err = godotenv.Write(map[string]string{
		"TESTIMONIALS_SOURCE": config.SourcePostgres,
		"DATABASE_URL":        conn,
	}, envFile)
	if err != nil {
		done()
		errChan <- fmt.Errorf("failed to write %s: %w", envFile, err)
		return
	}

	postgresUp.Store(true)
	<-stopChan
	slog.Info("received stop signal")
	done()
	slog.Info("stopped postgres")
	doneChan <- struct{}{}
}

func seed(ctx context.Context, conn string) error {
	db, err := storage.OpenPostgres(ctx, conn)
	if err != nil {
		return err
	}
	defer db.Close()

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
			return fmt.Errorf("failed to seed postgres: %w", err)
		}
	}

	return nil
}

func terminate(cancel func()) func(sig os.Signal) error {
	return func(sig os.Signal) error {
		slog.Info("terminating")
		stopChan <- struct{}{}
		if sig == syscall.SIGQUIT {
			<-doneChan
		}
		cancel()
		return daemon.ErrStop
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
