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

	"github.com/starford/raido/internal/api"
	"github.com/starford/raido/internal/assoc"
	"github.com/starford/raido/internal/budget"
	"github.com/starford/raido/internal/mcpserver"
	"github.com/starford/raido/internal/oracle"
	"github.com/starford/raido/internal/puzzleservice"
	"github.com/starford/raido/internal/seeds"
	"github.com/starford/raido/internal/snapshot"
	"github.com/starford/raido/internal/sse"
)

// components holds everything the serving surfaces share.
type components struct {
	svc  *puzzleservice.Service
	pool *seeds.Pool
	db   *snapshot.DB
}

// setup builds the puzzle service and its collaborators from config.
// notify, if non-nil, receives generation events.
func setup(cfg *Config, notify func(kind, id string)) (*components, error) {
	if cfg.Oracle.APIKey == "" {
		return nil, fmt.Errorf("oracle api key is empty (set ORACLE_API_KEY or oracle.api_key)")
	}

	db, err := snapshot.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init snapshot db: %w", err)
	}

	cache := assoc.NewCache()
	if entries, err := db.LoadCache(); err != nil {
		slog.Warn("cache restore failed", slog.String("error", err.Error()))
	} else if len(entries) > 0 {
		cache.Restore(entries)
		slog.Info("cache restored", slog.Int("words", cache.Len()))
	}

	meter := budget.NewCounter(cfg.Oracle.CallBudget, cfg.Oracle.BudgetWindow)
	client := oracle.New(cfg.Oracle.APIKey, cfg.Oracle.Model, meter)
	source := assoc.NewSource(cache, client)

	pool := seeds.Default()
	if cfg.Seeds.Path != "" {
		pool, err = seeds.Load(cfg.Seeds.Path)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("load seed words: %w", err)
		}
	}

	deps := puzzleservice.Deps{
		Source: source,
		Themer: client,
		Pool:   pool,
		Params: cfg.Puzzle.SearchParams(),
		Store:  db,
		Notify: notify,
	}
	if cfg.Puzzle.ShuffleSeed != 0 {
		seed := cfg.Puzzle.ShuffleSeed
		deps.ShuffleSeed = func() int64 { return seed }
	}

	svc, err := puzzleservice.New(deps)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Resume serving the last persisted puzzle while a fresh round runs.
	if p, err := db.LatestPuzzle(); err != nil {
		slog.Warn("puzzle restore failed", slog.String("error", err.Error()))
	} else if p != nil {
		svc.Restore(p)
		slog.Info("puzzle restored", slog.String("id", p.ID))
	}

	return &components{svc: svc, pool: pool, db: db}, nil
}

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

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("oracle_model", cfg.Oracle.Model),
		slog.Int("oracle_call_budget", cfg.Oracle.CallBudget),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)

	comp, err := setup(cfg, broker.PublishPuzzleEvent)
	if err != nil {
		return err
	}
	defer comp.db.Close()

	apiRouter := api.NewRouter(comp.svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, nil)

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

	// SSE endpoint.
	r.Get("/api/events", broker.ServeHTTP)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the seed word file for edits.
	if cfg.Seeds.Path != "" {
		g.Go(func() error {
			if err := seeds.Watch(gCtx, comp.pool, cfg.Seeds.Path, logger); err != nil {
				logger.Warn("seed watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Generation loop: one round at startup when nothing was restored,
	// then periodic regeneration.
	g.Go(func() error {
		if _, err := comp.svc.Current(); err != nil {
			if _, err := comp.svc.Generate(gCtx); err != nil {
				logger.Warn("startup generation failed", slog.String("error", err.Error()))
			}
		}
		if cfg.Puzzle.RegenerateInterval <= 0 {
			return nil
		}
		ticker := time.NewTicker(cfg.Puzzle.RegenerateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				if _, err := comp.svc.Generate(gCtx); err != nil {
					logger.Warn("scheduled generation failed", slog.String("error", err.Error()))
				}
			}
		}
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

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	err = g.Wait()

	// Persist the in-memory cache so the next run starts warm.
	if saveErr := comp.db.SaveCache(comp.svc.Snapshot()); saveErr != nil {
		logger.Error("final cache snapshot failed", slog.String("error", saveErr.Error()))
	}

	if err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP starts the MCP stdio server backed by the same puzzle service
// as the HTTP surface. Logs go to stderr so stdout stays a clean MCP
// transport.
func RunMCP(opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	comp, err := setup(cfg, nil)
	if err != nil {
		return err
	}
	defer comp.db.Close()

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(comp.svc).ServeStdio()
}
