package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Manager owns the single open database handle. Raters can switch between
// study files at runtime; Open closes the previous handle completely before
// the new one is touched, so no statement ever straddles two files.
type Manager struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewManager creates a Manager with no database open yet.
// If logger is nil, a default logger will be used.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		logger: logger.With(slog.String("component", "sqlite_manager")),
	}
}

// Open switches the manager to the database file at path. The file must
// already exist: the service rates existing studies, it does not create
// them. The previous handle, if any, is closed first; on failure the
// manager is left with no open database.
func (m *Manager) Open(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("database file %q: %w", path, err)
	}

	if m.db != nil {
		if err := m.db.Close(); err != nil {
			m.logger.Warn("failed to close previous database",
				slog.String("path", m.path),
				slog.String("error", err.Error()))
		}
		m.db = nil
		m.path = ""
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database %q: %w", path, err)
	}
	// The UI serializes rater input; a small pool is plenty and keeps
	// SQLite's writer locking out of the picture.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database %q: %w", path, err)
	}

	m.db = db
	m.path = path
	m.logger.Info("database opened", slog.String("path", path))
	return nil
}

// DB returns the open database handle, or nil when no database is open.
// Callers resolve the handle per request so a database switch takes effect
// immediately.
func (m *Manager) DB() *sql.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}

// Path returns the path of the open database file, or "" when none is open.
func (m *Manager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// ImageBase returns the directory the UI resolves screenshot FileNames
// against: the directory containing the database file.
func (m *Manager) ImageBase() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.path == "" {
		return ""
	}
	return filepath.Dir(m.path)
}

// Close closes the open database handle, if any.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	m.path = ""
	return err
}
