// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/folio/internal/api"
	"github.com/starford/folio/internal/audit"
	"github.com/starford/folio/internal/auth"
	"github.com/starford/folio/internal/mcpserver"
	"github.com/starford/folio/internal/metrics"
	"github.com/starford/folio/internal/portfolio"
	"github.com/starford/folio/internal/portfolioservice"
	"github.com/starford/folio/internal/sse"
	"github.com/starford/folio/internal/storage"
	"github.com/starford/folio/internal/watch"
)

var errConfigRequired = errors.New("config is required")

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// Run starts the HTTP server, the data watcher and the signal handler.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := newLogger(os.Stdout, cfg.App.LogLevel)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("env", cfg.App.Env),
		slog.String("data_dir", cfg.Data.Dir),
		slog.Any("locales", cfg.Data.Locales),
		slog.String("audit_path", cfg.Audit.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if cfg.Auth.UsesDefaults() {
		logger.Warn("Using default admin credentials or session secret; set AUTH_SECRET, ADMIN_USERNAME and ADMIN_PASSWORD")
	}

	// Initialize storage.
	files, err := storage.NewFS(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	catalog := portfolio.NewCatalog(files, cfg.Data.Locales)

	// Initialize SQLite audit trail.
	db, err := audit.Open(cfg.Audit.Path)
	if err != nil {
		return fmt.Errorf("init audit: %w", err)
	}
	defer db.Close()

	authority, err := auth.New(auth.Options{
		Secret:   []byte(cfg.Auth.Secret),
		Username: cfg.Auth.Username,
		Password: cfg.Auth.Password,
		TTL:      cfg.Auth.SessionTTL,
		Secure:   cfg.App.Production(),
	})
	if err != nil {
		return fmt.Errorf("init auth: %w", err)
	}

	collector := metrics.NewCollector(app.registry)

	// SSE broker.
	broker := sse.NewBroker(2*time.Second, sse.WithClientObserver(collector.SetEventClients))
	defer broker.Close()

	limiter := api.NewLoginLimiter(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst, 10*time.Minute)
	defer limiter.Stop()

	svc := portfolioservice.New(catalog,
		portfolioservice.WithAudit(db),
		portfolioservice.WithMetrics(collector))

	appRouter := api.NewRouter(api.Deps{
		Service: svc,
		Auth:    authority,
		Limiter: limiter,
		Events:  broker,
	})

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(api.PeerAddr)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health and metrics endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := svc.Portfolio(r.Context(), ""); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", metrics.Handler(app.registry))

	r.Mount("/", appRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start data watcher with SSE callback.
	g.Go(func() error {
		if err := watch.Watch(gCtx, files, catalog, logger, broker.PublishChange); err != nil {
			logger.Warn("watcher unavailable", slog.String("error", err.Error()))
		}
		return nil
	})

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
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Open SSE streams end when the broker closes.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group context so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// RunMCP serves the read-only portfolio tools over stdio. Logs go to stderr
// because stdout carries the protocol.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := newLogger(os.Stderr, cfg.App.LogLevel)

	files, err := storage.NewFS(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	svc := portfolioservice.New(portfolio.NewCatalog(files, cfg.Data.Locales))

	logger.Info("MCP server starting", slog.String("data_dir", cfg.Data.Dir))
	return mcpserver.New(svc, app.version).ServeStdio()
}
