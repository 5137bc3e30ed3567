// main is the entry point of the students service.
//
// STARTUP SEQUENCE:
//  1. Load configuration (file optional, defaults bind 127.0.0.1:5000)
//  2. Initialise the logger
//  3. Build the ID generator and the student store
//  4. Register all HTTP routes and wrap them in middleware
//  5. Start the HTTP server in a separate goroutine
//  6. Block until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/students-api
//	go run ./cmd/students-api --config=config/local.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/students-inmem/internal/config"
	"github.com/aanand-mishra/students-inmem/internal/http/handlers/student"
	"github.com/aanand-mishra/students-inmem/internal/http/middleware"
	"github.com/aanand-mishra/students-inmem/internal/idgen"
	"github.com/aanand-mishra/students-inmem/internal/storage"
	"github.com/aanand-mishra/students-inmem/internal/storage/memory"
	"github.com/aanand-mishra/students-inmem/internal/storage/sqlite"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// Handlers log through the package-level slog functions, so the
	// configured logger also becomes the default.
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting students-api",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	// One generator and one store for the whole process, owned here and
	// handed to every handler by reference.
	ids := idgen.New()
	store, closeStore, err := newStorage(cfg, ids)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	log.Info("storage initialised",
		slog.String("backend", cfg.Storage.Backend))

	// ── 4. Register HTTP Routes ───────────────────────────────────────────
	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: newHandler(log, store),

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ── 5. Start Server in a Goroutine ────────────────────────────────────
	// ListenAndServe returns http.ErrServerClosed once Shutdown is called.
	serverErr := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// ── 6. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		log.Info("shutdown signal received, stopping server...")
	case err := <-serverErr:
		log.Error("server encountered an error",
			slog.String("error", err.Error()))
		closeStore()
		os.Exit(1)
	}

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		closeStore()
		os.Exit(1)
	}

	log.Info("server stopped gracefully",
		slog.Int64("last_student_id", ids.Current()))
}

// newStorage builds the backend named by cfg.Storage.Backend. The
// returned func releases backend resources and is safe to call twice.
func newStorage(cfg *config.Config, ids *idgen.Generator) (storage.Storage, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return memory.New(ids), func() {}, nil
	case config.BackendSQLite:
		db, err := sqlite.New(ids)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// newHandler registers the student routes and wraps them so every
// request is logged and a panicking handler answers 500.
func newHandler(log *slog.Logger, store storage.Storage) http.Handler {
	router := http.NewServeMux()
	student.Register(router, store)

	return middleware.Chain(router,
		middleware.RequestLogger(log),
		middleware.Recover(log),
	)
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// dev (and anything unrecognised): text output at DEBUG.
// staging: JSON at DEBUG.
// prod: JSON at INFO.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
