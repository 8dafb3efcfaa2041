package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/overlaylab/rater-api/internal/api"
	apiMiddleware "github.com/overlaylab/rater-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.provider, app.jwtService, app.passwordVerifier)
	taskHandler := api.NewTaskHandler(app.provider)
	decisionHandler := api.NewDecisionHandler(app.provider)
	databaseHandler := api.NewDatabaseHandler(app.provider)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Task overview and item selection
			r.Get("/tasks", taskHandler.List)
			r.Post("/tasks/eval/{id}/next", taskHandler.NextEvaluation)
			r.Post("/tasks/comp/{id}/next", taskHandler.NextComparison)

			// Decisions
			r.Post("/scores", decisionHandler.RecordScore)
			r.Post("/choices", decisionHandler.RecordChoice)
			r.Post("/undo", decisionHandler.Undo)

			// Database switching and metadata
			r.Post("/database", databaseHandler.Switch)
			r.Get("/meta", databaseHandler.Meta)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
