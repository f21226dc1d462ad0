// Package server initializes and runs the tabstock server: database,
// migrations, optional cache, services and the HTTP API, with graceful
// shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dverbovy/tabstock/internal/logging"
	"github.com/dverbovy/tabstock/internal/server/cache"
	"github.com/dverbovy/tabstock/internal/server/config"
	"github.com/dverbovy/tabstock/internal/server/httpapi"
	"github.com/dverbovy/tabstock/internal/server/repositories/repomanager"
	"github.com/dverbovy/tabstock/internal/server/services"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	cache   *cache.ItemCache
	handler *httpapi.Handler
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	logger := logging.NewDefault()

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	itemCache, err := cache.NewItemCache(ctx, c.RedisAddr)
	if err != nil {
		return nil, fmt.Errorf("cache init error: %w", err)
	}

	inventory := services.NewInventoryService(db, repos, itemCache, logger)
	devices := services.NewDeviceService(db, repos, c)
	presign := services.NewPresignService(c)

	handler := httpapi.NewHandler(inventory, devices, presign, c, logger)

	return &App{config: c, logger: logger, db: db, cache: itemCache, handler: handler}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.handler.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := app.cache.Close(); err != nil {
		app.logger.Warn(ctx, "cache close failed", "error", err)
	}
	return app.db.Close()
}
