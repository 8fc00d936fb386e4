/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

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
  4. CORS:       Cross-origin requests for dashboards

ROUTE GROUPS:
  /api/reporters        Registered reporter catalog
  /api/reports/*        Generate and read archived reports

SECURITY NOTE:
  No authentication middleware. The server holds the upstream API token;
  its own surface is intended for internal networks only.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/reporter: Server startup
*/
package api

import (
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
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/reporters", h.ListReporters)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/", h.ListReports)
			// {key} is a numeric archive id on GET, a reporter slug on POST.
			r.Get("/{key}", h.GetReport)
			r.Post("/{key}", h.GenerateReport)
			r.Get("/{key}/latest", h.LatestReport)
		})
	})

	return r
}
