/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:       Unique ID per request for tracing
  2. Recoverer:       Panic recovery (500 instead of crash)
  3. RequestLogger:   Structured request logging (zerolog)
  4. CORS:            Cross-origin requests for the dashboard frontend
  5. SimulateLatency: Optional mock-network delay (demo mode)

ROUTE GROUPS:
  /api/discounts/*   Discount CRUD, apply, ledger queries
  /api/reports/*     Usage reporting
  /api/scenarios/*   Demo data loading (dev only)

SECURITY NOTE:
  No authentication middleware. All endpoints are public; authentication
  is out of scope for this system.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// RouterConfig carries the router-level settings from the composition root.
type RouterConfig struct {
	AllowedOrigins []string
	Latency        time.Duration // 0 disables simulated latency
	Log            zerolog.Logger
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(cfg.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		if cfg.Latency > 0 {
			r.Use(SimulateLatency(cfg.Latency))
		}

		// Discount routes
		r.Route("/discounts", func(r chi.Router) {
			r.Get("/", h.ListDiscounts)
			r.Post("/", h.CreateDiscount)
			r.Get("/{id}", h.GetDiscount)
			r.Put("/{id}", h.UpdateDiscount)
			r.Delete("/{id}", h.DeleteDiscount)
			r.Post("/{id}/apply", h.ApplyDiscount)
			r.Get("/{id}/applications", h.ListApplications)
		})

		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/usage", h.UsageReport)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetStore)
		})
	})

	return r
}
