// Package domain contains the core domain entities of the rating engine
// and their validation logic.
package domain
