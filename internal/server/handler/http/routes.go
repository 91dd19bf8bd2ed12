// Package http provides HTTP routing and middleware configuration
// for the sales API.
package http

import (
	"net/http"

	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the sales
// API. It applies request logging and bearer-token authentication and
// mounts the auth, inventory and sales endpoints under /api.
//
// Routes:
//
//	GET  /health              → liveness probe (open)
//	POST /api/auth/login      → authHandler.Login (open, form-encoded)
//	GET  /api/auth/me         → authHandler.Me
//	POST /api/auth/logout     → authHandler.Logout
//	GET  /api/vehicles        → salesHandler.Vehicles
//	POST /api/sales           → salesHandler.CreateSale (JSON only)
//	GET  /api/sales/mine      → salesHandler.MySales
//
// Middleware chain (applied in order):
//  1. WithRequestLogging(logger) — logs incoming requests
//  2. BearerAuth(verifier)       — enforces bearer-token authentication
func NewRouter(
	authHandler *AuthHandler,
	salesHandler *SalesHandler,
	verifier middleware.TokenVerifier,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// Enforce bearer-token authentication (login and health stay open)
	r.Use(middleware.BearerAuth(verifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "automotriz-jj-api",
		})
	})

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Get("/auth/me", authHandler.Me)
		r.Post("/auth/logout", authHandler.Logout)

		r.Get("/vehicles", salesHandler.Vehicles)
		r.Get("/sales/mine", salesHandler.MySales)

		// Sale registration carries a JSON body
		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.AllowContentType("application/json"))
			r.Post("/sales", salesHandler.CreateSale)
		})
	})

	return r
}
