// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing the selection and recording
// rules to remain independent of the SQLite specifics.
package store
