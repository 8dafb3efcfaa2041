// Package sqlite implements the store interfaces against a local SQLite
// database file using the pure-Go modernc.org/sqlite driver. It also owns
// the Manager, which holds the single open database handle and swaps it
// when the user opens a different study file.
package sqlite
