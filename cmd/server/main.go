// Package main implements the entry point for the rater API server,
// which drives the rating UI over a local study database: task selection,
// presentation binding, progress, and decision recording.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/overlaylab/rater-api/internal/config"
	"github.com/overlaylab/rater-api/internal/platform/logger"
)

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration, sets up logging, wires the
// application, and opens the configured study database.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	// The configured database is opened through the same path a runtime
	// switch takes.
	if _, err := app.provider.Switch(context.Background(), cfg.Database.Path); err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", cfg.Database.Path, err)
	}

	return app, nil
}
