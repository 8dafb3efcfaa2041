package api

import (
	"context"
	"errors"

	"github.com/overlaylab/rater-api/internal/service/session"
	"github.com/overlaylab/rater-api/internal/store"
)

// ErrNoDatabaseOpen indicates that no study database file is open yet.
var ErrNoDatabaseOpen = errors.New("no database open")

// Backend bundles the dependencies that are tied to one open database
// file. Switching files replaces the whole bundle: old sessions and store
// handles must never outlive their database.
type Backend struct {
	Raters   store.RaterStore
	Sessions *session.Manager

	// Path is the open database file; ImageBase is the directory the UI
	// resolves screenshot file names against.
	Path      string
	ImageBase string
}

// BackendProvider yields the current backend and performs database
// switches. Implementations must close the previous database completely
// before opening the new one.
type BackendProvider interface {
	// Current returns the backend for the open database.
	// Returns ErrNoDatabaseOpen when no file has been opened yet.
	Current() (*Backend, error)

	// Switch closes the current database and opens the file at path,
	// returning the fresh backend.
	Switch(ctx context.Context, path string) (*Backend, error)
}
