package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/seqnotes/seqnotes-sync/internal/api"
	"github.com/seqnotes/seqnotes-sync/internal/cache"
	"github.com/seqnotes/seqnotes-sync/internal/config"
	"github.com/seqnotes/seqnotes-sync/internal/knowledge"
	"github.com/seqnotes/seqnotes-sync/internal/outbox"
	"github.com/seqnotes/seqnotes-sync/internal/platform/logger"
	"github.com/seqnotes/seqnotes-sync/internal/platform/postgres"
	"github.com/seqnotes/seqnotes-sync/internal/sharedcache"
	"github.com/seqnotes/seqnotes-sync/internal/store"
	"github.com/seqnotes/seqnotes-sync/internal/syncer"
)

// migrationsDir is where the goose SQL migrations live, relative to
// the working directory the daemon is launched from.
const migrationsDir = "migrations"

// application bundles everything the daemon wires together at startup.
// All stores are constructed here and injected downward; nothing in
// the lower layers holds package-level state.
type application struct {
	cfg    *config.Config
	logger *slog.Logger

	db     *sql.DB
	kv     store.KV
	queue  *outbox.Queue
	shared *sharedcache.Client
	kb     *knowledge.Service
	syncer *syncer.Syncer
	server *http.Server
}

// initializeApp loads configuration and builds the full object graph.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server.LogLevel)
	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"durable_store", cfg.Database.URL != "",
		"backend_configured", cfg.Sync.BackendURL != "")

	app := &application{
		cfg:    cfg,
		logger: appLogger,
	}

	if err := app.setupStores(); err != nil {
		return nil, err
	}
	app.setupServices()
	app.setupServer()

	return app, nil
}

// setupStores opens the durable store when a database is configured,
// runs migrations, and falls back to the in-memory store otherwise.
func (app *application) setupStores() error {
	if app.cfg.Database.URL == "" {
		app.logger.Warn("no database configured, using in-memory store; cache and queue will not survive restarts")
		app.kv = store.NewMemoryKV()
		return nil
	}

	db, err := sql.Open("pgx", app.cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if _, err := os.Stat(migrationsDir); err == nil {
		if err := goose.Up(db, migrationsDir); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	} else {
		app.logger.Warn("migrations directory not found, skipping migrations", "dir", migrationsDir)
	}

	app.db = db
	app.kv = postgres.NewKVStore(db)
	app.shared = sharedcache.NewClient(db, app.cfg.SharedCache, app.logger)
	return nil
}

// setupServices builds the cache, queue, knowledge service, and syncer
// over the chosen store.
func (app *application) setupServices() {
	kbCache := cache.NewStore(app.kv, "kb", cache.WithLogger(app.logger))
	app.queue = outbox.NewQueue(app.kv, "outbox", outbox.WithQueueLogger(app.logger))
	app.kb = knowledge.NewService(kbCache, app.cfg.Cache, app.queue, app.logger)

	var applier syncer.Applier
	if app.cfg.Sync.BackendURL != "" {
		applier = syncer.NewHTTPApplier(app.cfg.Sync.BackendURL)
	} else {
		applier = syncer.ApplierFunc(func(ctx context.Context, m outbox.Mutation) error {
			return fmt.Errorf("no backend configured, cannot replay mutation %s", m.ID)
		})
	}

	app.syncer = syncer.New(app.queue, applier, syncer.Config{
		Interval:   app.cfg.Sync.Interval,
		MaxRetries: app.cfg.Sync.MaxRetries,
	}, app.logger)

	// Without a backend there is nothing to drain against; start
	// offline so the loop does not burn retries. Status, manual retry,
	// and dismiss stay available over the API.
	if app.cfg.Sync.BackendURL == "" {
		app.syncer.SetOnline(false)
	}
}

func (app *application) setupServer() {
	handler := api.NewSyncHandler(app.syncer, app.logger)
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Server.Port),
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Run starts the drain loop and HTTP server, then blocks until a
// shutdown signal arrives and everything has stopped.
func (app *application) Run(stop <-chan os.Signal) error {
	app.syncer.Start()

	serverErr := make(chan error, 1)
	go func() {
		app.logger.Info("http server listening", "addr", app.server.Addr)
		if err := app.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		app.syncer.Stop()
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-stop:
		app.logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("http server shutdown failed", "error", err)
	}

	app.syncer.Stop()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("database close failed", "error", err)
		}
	}

	app.logger.Info("shutdown complete")
	return nil
}
