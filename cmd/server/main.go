// Package main implements the entry point for the userbase API server,
// which exposes CRUD operations over user records behind an OpenAPI
// contract-validated HTTP surface.
package main

import (
	"context"
	"log"
)

// main is the entry point for the userbase server.
// It initializes configuration, sets up logging, wires the application
// dependencies, starts the database lifecycle, and runs the HTTP server.
func main() {
	ctx := context.Background()

	cfg, err := loadAppConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := setupAppLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// A failed connection is logged, not fatal: the server still answers
	// requests and reports persistence errors per call.
	app.databaseSetup(ctx)

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
