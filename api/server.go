/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/employers/{id}/*  Punches, summaries, adjustments, cycle, config
  /api/holidays          Global and employer-specific holidays
  /api/scenarios         Demo data loading (development only)
  /health                Liveness probe

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/employers/{id}", func(r chi.Router) {
			// Punch routes
			r.Route("/punches", func(r chi.Router) {
				r.Get("/", h.ListPunches)
				r.Post("/", h.CreatePunch)
				r.Put("/{punchID}", h.EditPunch)
			})

			// Day routes
			r.Route("/days/{date}", func(r chi.Router) {
				r.Post("/recalculate", h.RecalculateDay)
				r.Get("/summary", h.GetDaySummary)
			})
			r.Get("/report", h.GetRangeReport)

			// Adjustment routes
			r.Route("/adjustments", func(r chi.Router) {
				r.Get("/", h.ListAdjustments)
				r.Post("/", h.CreateAdjustment)
			})

			// Cycle routes
			r.Route("/cycle", func(r chi.Router) {
				r.Get("/status", h.GetCycleStatus)
				r.Get("/closures", h.ListClosures)
				r.Post("/advance", h.AdvanceCycle)
				r.Post("/close", h.CloseCycle)
				r.Post("/bootstrap", h.BootstrapCycles)
				r.Post("/reverse", h.ReverseCycles)
			})

			// Config routes
			r.Get("/config", h.GetConfig)
			r.Put("/config", h.PutConfig)

			// Absence routes
			r.Route("/absences", func(r chi.Router) {
				r.Get("/", h.ListAbsences)
				r.Post("/", h.CreateAbsence)
			})
		})

		// Holiday routes
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
		})

		// Demo scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
