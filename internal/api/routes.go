package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/coptic-calendar-api/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health
//	GET    /metrics
//	GET    /api/v1/day?date=&lang=
//	GET    /api/v1/day/today?lang=
//	GET    /api/v1/week?start=&lang=
//	GET    /api/v1/range?start=&end=&lang=
//	GET    /api/v1/year?year=&lang=
//	GET    /api/v1/coptic?date=  |  ?day=&month=&year=
//	GET    /api/v1/pascha/{year}?lang=
//	GET    /api/v1/search?q=&lang=&type=&limit=&offset=
//	GET    /api/v1/admin/imports?limit=           (API key)
//	GET    /api/v1/admin/snapshots                (API key)
//	POST   /api/v1/admin/snapshots/{year}?lang=   (API key)
//	DELETE /api/v1/admin/snapshots/{year}?lang=   (API key)
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)
	if handlers.metrics != nil {
		r.Use(handlers.metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", handlers.metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	// ==========================================================================
	// Public routes
	// ==========================================================================
	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/day", handlers.GetDay)
		r.Get("/day/today", handlers.GetToday)
		r.Get("/week", handlers.GetWeek)
		r.Get("/range", handlers.GetRange)
		r.Get("/year", handlers.GetYear)
		r.Get("/coptic", handlers.GetCoptic)
		r.Get("/pascha/{year}", handlers.GetPascha)
		r.Get("/search", handlers.Search)

		// ======================================================================
		// Admin routes (API key)
		// ======================================================================
		r.Route("/admin", func(r chi.Router) {
			r.Use(AuthMiddleware(cfg, logger))

			r.Get("/imports", handlers.ListImports)
			r.Get("/snapshots", handlers.ListSnapshots)
			r.Post("/snapshots/{year}", handlers.CreateSnapshot)
			r.Delete("/snapshots/{year}", handlers.DeleteSnapshot)
		})
	})

	return r
}
