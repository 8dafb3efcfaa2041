// Package testdb provides in-memory SQLite fixtures for store integration
// tests. Each test gets a fresh database migrated to the current schema.
package testdb

import (
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/overlaylab/rater-api/migrations"
)

// NewMemoryDB opens a fresh in-memory SQLite database and applies all
// migrations. The handle is closed automatically when the test ends.
//
// The pool is capped at one connection: with modernc.org/sqlite every new
// connection to ":memory:" is a separate empty database, so a second
// connection would not see the migrated schema.
func NewMemoryDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close in-memory database: %v", err)
		}
	})

	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		t.Fatalf("set goose dialect: %v", err)
	}
	if err := goose.Up(db, "."); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	return db
}

// MustExec runs a statement against the test database and fails the test on
// error. Fixture builders use it to seed catalog rows.
func MustExec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}
