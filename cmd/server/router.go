package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/packlane/packlane-api/internal/api"
	apimw "github.com/packlane/packlane-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apimw.Trace)

	authHandler := api.NewAuthHandler(app.operator, app.tokens)
	authMiddleware := apimw.NewAuthMiddleware(app.tokens)

	jobHandler := api.NewJobHandler(app.scheduler, app.jobs, app.config.Jobs.HardTimeout)
	tripHandler := api.NewTripHandler(app.trips)

	r.Route("/api/v1", func(r chi.Router) {
		// Token endpoint (public)
		r.Post("/auth/token", authHandler.IssueToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Route("/trip-generation/jobs", func(r chi.Router) {
				r.Post("/", jobHandler.SubmitJob)
				r.Get("/stats", jobHandler.GetStats)
				r.Get("/health", jobHandler.Health)
				r.Get("/{id}", jobHandler.GetJob)
			})

			r.Get("/trips", tripHandler.ListTrips)
			r.Get("/trips/{id}", tripHandler.GetTrip)
			r.Delete("/trips/{id}", tripHandler.DeleteTrip)
		})
	})

	// Liveness endpoint stays public so orchestrators can probe it.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}
