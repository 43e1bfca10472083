// Package internal contains core application functionality
package internal

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"visitlens/internal/config"
	"visitlens/internal/database"
	"visitlens/internal/jobs"
	"visitlens/internal/logging"
	"visitlens/internal/pkg/geoip"
)

// Application bundles the HTTP server with its configuration and database.
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	DBManager *database.DBManager

	server    *fiber.App
	scheduler *jobs.Scheduler
}

// NewApp creates a new application instance with default settings
func NewApp() (*Application, error) {
	cfg := config.GetConfig()
	return NewAppWithConfig(cfg)
}

// NewAppWithConfig creates a new application with the provided config
func NewAppWithConfig(cfg *config.Config) (*Application, error) {
	logger := logging.NewLogger(cfg)
	geoip.InitLogger(logger)

	dbManager := database.NewDBManager(cfg, logger)
	if err := dbManager.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	server := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: cfg.IsProduction(),
	})
	MountRoutes(server, dbManager.GetConnection(), cfg, logger)

	return &Application{
		Config:    cfg,
		Logger:    logger,
		DBManager: dbManager,
		server:    server,
		scheduler: jobs.NewScheduler(dbManager, logger, cfg),
	}, nil
}

// StartAsync starts serving in the background; startup failures surface on
// the returned channel.
func (a *Application) StartAsync() <-chan error {
	errCh := make(chan error, 1)
	a.scheduler.Start()
	go func() {
		addr := ":" + a.Config.AppPort
		a.Logger.Info("Starting HTTP server", slog.String("addr", addr))
		if err := a.server.Listen(addr); err != nil {
			errCh <- err
		}
	}()
	return errCh
}

// Shutdown stops the server and closes the database.
func (a *Application) Shutdown() error {
	a.scheduler.Stop()
	if err := a.server.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	if err := a.DBManager.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
