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

	"github.com/starford/raido/internal/api"
	"github.com/starford/raido/internal/history"
	"github.com/starford/raido/internal/llm"
	"github.com/starford/raido/internal/mcpserver"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/period"
	"github.com/starford/raido/internal/review"
	"github.com/starford/raido/internal/storage"
)

// NewService builds the review service from configuration: vault
// storage, LLM client, and (optionally) the run history DB. The
// returned close func releases the history handle and must be called
// when the caller is done.
func NewService(cfg *Config) (*review.Service, storage.Provider, func() error, error) {
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, nil, nil, fmt.Errorf("create vault dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init storage: %w", err)
	}

	var hist *history.DB
	closeFn := func() error { return nil }
	if cfg.History.Path != "" {
		hist, err = history.Open(cfg.History.Path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("init history: %w", err)
		}
		closeFn = hist.Close
	}

	opts, err := reviewOptions(cfg)
	if err != nil {
		_ = closeFn()
		return nil, nil, nil, err
	}

	client := llm.New(cfg.LLM.ClientConfig(), nil)
	return review.NewService(store, client, hist, opts), store, closeFn, nil
}

func reviewOptions(cfg *Config) (review.Options, error) {
	loc := cfg.Review.Location()

	var custom *period.CustomRange
	if models.Preset(cfg.Review.Preset) == models.PresetCustom {
		var err error
		custom, err = period.ParseCustomISO(cfg.Review.CustomStart, cfg.Review.CustomEnd, loc)
		if err != nil {
			return review.Options{}, fmt.Errorf("review config: %w", err)
		}
	}

	return review.Options{
		Folders:         cfg.Review.Folders,
		OutputFolder:    cfg.Review.OutputFolder,
		Preset:          models.Preset(cfg.Review.Preset),
		Custom:          custom,
		Location:        loc,
		MaxNotes:        cfg.Review.MaxNotes,
		MaxCharsPerNote: cfg.Review.MaxCharsPerNote,
		FramingOverride: cfg.Review.SystemPrompt,
		Model:           cfg.LLM.Model,
	}, nil
}

// Run starts the HTTP server with the given options and blocks until
// shutdown.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("history_path", cfg.History.Path),
		slog.String("llm_provider", cfg.LLM.Provider),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svc, _, closeFn, err := NewService(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token)

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

// RunMCP serves the MCP stdio server against the configured vault.
func RunMCP(cfg *Config) error {
	svc, store, closeFn, err := NewService(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	return mcpserver.New(store, svc).ServeStdio()
}
