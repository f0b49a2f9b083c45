// Package server initializes and runs the VaultSync server: it wires the
// Postgres-backed repositories into the domain services, exposes them over
// the HTTP API, and handles graceful shutdown on OS signals.
package server

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

	"github.com/wtg/vaultsync/internal/logging"
	"github.com/wtg/vaultsync/internal/server/audit"
	"github.com/wtg/vaultsync/internal/server/config"
	"github.com/wtg/vaultsync/internal/server/credentials"
	"github.com/wtg/vaultsync/internal/server/customers"
	"github.com/wtg/vaultsync/internal/server/httpapi"
	"github.com/wtg/vaultsync/internal/server/shared/db"
	"github.com/wtg/vaultsync/internal/server/sync"
	"github.com/wtg/vaultsync/internal/server/users"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager db.RepositoryManager
	api     *httpapi.API
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	manager, err := db.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return newApp(cfg, logger, manager), nil
}

func newApp(cfg *config.Config, logger logging.Logger, manager db.RepositoryManager) *App {
	secretKey := []byte(cfg.SecretKey)

	auditSvc := audit.NewService(manager.Audit())
	api := httpapi.NewAPI(
		users.NewService(manager.Users(), secretKey, cfg.TokenValidityDuration),
		customers.NewService(manager.Customers(), auditSvc),
		credentials.NewService(manager.Credentials(), auditSvc),
		auditSvc,
		sync.NewService(manager.Customers(), manager.Credentials(), auditSvc),
		secretKey,
		logger,
	)

	return &App{config: cfg, logger: logger, manager: manager, api: api}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.Addr)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.Addr,
		Handler: app.api.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "server error", "error", err)
		}
	case <-ctx.Done():
		app.logger.Info(ctx, "Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "shutdown error", "error", err)
		}
	}

	if conn := app.manager.Conn(); conn != nil {
		if err := conn.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}
}
