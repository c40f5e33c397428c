// Package internal provides the main application initialization and runtime logic.
package internal

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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/sowilo/internal/api"
	"github.com/starford/sowilo/internal/bucket"
	"github.com/starford/sowilo/internal/importer"
	"github.com/starford/sowilo/internal/mcpserver"
	"github.com/starford/sowilo/internal/remote"
	"github.com/starford/sowilo/internal/sse"
	syncer "github.com/starford/sowilo/internal/sync"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger. In MCP mode stdout carries the
	// protocol, so logs go to stderr.
	logOut := os.Stdout
	if app.mcp {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("bucket_path", cfg.Bucket.Path),
		slog.Bool("remote_enabled", cfg.Remote.Enabled()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize SQLite bucket.
	db, err := bucket.Open(cfg.Bucket.Path)
	if err != nil {
		return fmt.Errorf("init bucket: %w", err)
	}
	defer db.Close()

	// SSE broker.
	broker := sse.NewBroker(2*time.Second, db.UnreadCount)
	defer broker.Close()

	// Remote client and syncer.
	var (
		rem     syncer.Remote
		replies api.ReplySender
	)
	if cfg.Remote.Enabled() {
		client := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Token, logger)
		rem = client
		replies = client
	} else {
		rem = syncer.NoRemote{}
	}
	sy := syncer.New(rem, db, logger, broker.PublishChange)

	// Run initial sync.
	if cfg.Remote.Enabled() {
		if err := sy.SyncOnce(ctx); err != nil {
			logger.Warn("initial sync failed", slog.String("error", err.Error()))
		}
	}

	svc := api.NewService(db, sy, replies)

	if app.mcp {
		logger.Info("Serving MCP over stdio")
		return mcpserver.New(svc).ServeStdio()
	}

	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Poll the remote for new notifications.
	if cfg.Remote.Enabled() {
		g.Go(func() error {
			return sy.Run(gCtx, cfg.Remote.PollInterval)
		})
	}

	// Watch the seed directory for dropped documents.
	if cfg.Seed.Enabled() {
		g.Go(func() error {
			if err := os.MkdirAll(cfg.Seed.Path, 0o755); err != nil {
				return fmt.Errorf("create seed dir: %w", err)
			}
			return importer.Watch(gCtx, sy, cfg.Seed.Path, logger, broker.PublishChange)
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
