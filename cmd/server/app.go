package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lkemp/userbase/internal/api/contract"
	"github.com/lkemp/userbase/internal/config"
	"github.com/lkemp/userbase/internal/platform/mongodb"
	"github.com/lkemp/userbase/internal/service"
	"github.com/lkemp/userbase/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	conn   *mongodb.Connection

	// Stores (using interfaces for proper abstraction)
	userStore store.UserStore

	// Service interfaces
	userService service.UserService

	// API contract enforcement
	contract *contract.Validator
}

// newApplication creates a new application instance with all dependencies
// initialized. A missing or invalid API contract is fatal; the database
// connection is only prepared here, never dialed.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	// Load and validate the API contract before anything else. A server that
	// cannot enforce its contract must not come up.
	var err error
	app.contract, err = contract.Load(cfg.API.SpecPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load API contract: %w", err)
	}
	logger.Info("API contract loaded", "spec_path", cfg.API.SpecPath)

	// Prepare the database connection and the stores over it. The connection
	// is established later by databaseSetup.
	app.conn = mongodb.NewConnection(cfg.Database.URL, logger)
	app.userStore = mongodb.NewMongoUserStore(app.conn, cfg.Database.Name, logger)

	// Initialize services
	app.userService = service.NewUserService(app.userStore, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// databaseSetup starts the database connection lifecycle. Connection failures
// are logged and reflected in the connection state; they never abort startup,
// so the server serves requests (and reports store errors) while disconnected.
func (app *application) databaseSetup(ctx context.Context) {
	app.conn.Start(ctx)

	switch app.conn.State() {
	case mongodb.StateConnected:
		app.logger.Info("Database connection established",
			"database", app.config.Database.Name)
	default:
		app.logger.Warn("Starting without a database connection",
			"state", app.conn.State().String())
	}
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	// Set up router using the application dependencies
	router := app.setupRouter()

	// Start the HTTP server
	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.conn != nil {
		if err := app.conn.Close(context.Background()); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
