package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/overlaylab/rater-api/internal/api"
	"github.com/overlaylab/rater-api/internal/config"
	"github.com/overlaylab/rater-api/internal/platform/sqlite"
	"github.com/overlaylab/rater-api/internal/service/auth"
	"github.com/overlaylab/rater-api/internal/service/session"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	manager  *sqlite.Manager
	provider *managedBackendProvider

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
}

// newApplication wires the database-independent services. The database
// itself is opened afterwards through the backend provider so startup and
// runtime switching share one code path.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	manager := sqlite.NewManager(logger)

	return &application{
		config:  cfg,
		logger:  logger,
		manager: manager,
		provider: &managedBackendProvider{
			manager: manager,
			logger:  logger,
		},
		jwtService:       jwtService,
		passwordVerifier: auth.NewBcryptVerifier(),
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if err := app.manager.Close(); err != nil {
		app.logger.Error("failed to close database", "error", err)
	}
}

// managedBackendProvider implements api.BackendProvider over the sqlite
// Manager. Each open database gets a fresh bundle of stores and sessions;
// the bundle is replaced atomically on switch so handlers never mix
// handles from two files.
type managedBackendProvider struct {
	mu      sync.RWMutex
	manager *sqlite.Manager
	logger  *slog.Logger
	backend *api.Backend
}

func (p *managedBackendProvider) Current() (*api.Backend, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.backend == nil {
		return nil, api.ErrNoDatabaseOpen
	}
	return p.backend, nil
}

func (p *managedBackendProvider) Switch(ctx context.Context, path string) (*api.Backend, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.manager.Open(ctx, path); err != nil {
		// A rejected path (missing file) leaves the previous database
		// open; anything later in Open has already closed it.
		if p.manager.DB() == nil {
			p.backend = nil
		}
		return nil, err
	}

	db := p.manager.DB()
	if err := runMigrations(db, p.logger); err != nil {
		p.backend = nil
		return nil, fmt.Errorf("failed to migrate database %q: %w", path, err)
	}

	sessions := session.NewManager(
		db,
		sqlite.NewCatalogStore(db, p.logger),
		sqlite.NewItemStore(db, p.logger),
		sqlite.NewDecisionStore(db, p.logger),
		nil,
		p.logger,
	)

	backend := &api.Backend{
		Raters:    sqlite.NewRaterStore(db, p.logger),
		Sessions:  sessions,
		Path:      p.manager.Path(),
		ImageBase: p.manager.ImageBase(),
	}
	p.backend = backend

	p.logger.Info("backend switched",
		slog.String("path", backend.Path),
		slog.String("image_base", backend.ImageBase))
	return backend, nil
}
