// Package migrations embeds the goose SQL migrations so they can be applied
// from the server binary and from in-memory test databases without a
// migrations directory on disk.
package migrations

import "embed"

// FS holds the embedded migration files.
//
//go:embed *.sql
var FS embed.FS
