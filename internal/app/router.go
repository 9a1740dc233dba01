package app

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ellas-cupcakery/storefront/internal/handlers"
	"github.com/ellas-cupcakery/storefront/internal/utils/jwt"
)

// setupRouter creates and configures the router
func setupRouter(deps *dependencies, jwtManager *jwt.Manager, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	setupMiddleware(r, logger)

	setupRoutes(r, deps, jwtManager)

	return r
}

// setupMiddleware configures the global middleware chain
func setupMiddleware(r *chi.Mux, logger *zap.Logger) {
	r.Use(handlers.RequestIDMiddleware())
	r.Use(handlers.LoggingMiddleware(logger))
	r.Use(handlers.RecoveryMiddleware(logger))
	r.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func setupRoutes(r *chi.Mux, deps *dependencies, jwtManager *jwt.Manager) {
	r.Get("/health", deps.handlers.health.Health)
	r.Get("/ready", deps.handlers.health.Ready)

	// Data endpoints are open: storefront surfaces poll and mutate
	// without a session.
	r.Get("/api/data/{collection}", deps.handlers.data.GetCollection)
	r.Get("/api/site/settings", deps.handlers.data.GetSettings)
	r.Post("/api/data/update", deps.handlers.data.Update)
	r.Post("/api/data/add", deps.handlers.data.Add)
	r.Post("/api/data/delete", deps.handlers.data.Delete)

	r.Post("/api/vendor/login", deps.handlers.vendor.Login)

	// Dashboard-only routes require a vendor session
	r.Group(func(r chi.Router) {
		r.Use(handlers.VendorAuthMiddleware(jwtManager))
		r.Get("/api/vendor/session", deps.handlers.vendor.Session)
	})
}
