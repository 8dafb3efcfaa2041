// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between the rating UI and
// the internal engine services, translating HTTP concerns to session
// operations.
package api
