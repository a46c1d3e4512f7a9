package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lucifer-kj/review-app-sub002/internal/db"
	"github.com/lucifer-kj/review-app-sub002/internal/email"
	"github.com/lucifer-kj/review-app-sub002/internal/handlers"
	"github.com/lucifer-kj/review-app-sub002/internal/handlers/api"
	"github.com/lucifer-kj/review-app-sub002/internal/middleware"
	"github.com/lucifer-kj/review-app-sub002/internal/signing"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB, signer *signing.Signer, notifier *email.Notifier) error {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(s.SessionStore, s.Cfg)

	// Initialize handlers
	reviewHandler := api.NewReviewHandler(database, s.Cfg)
	tenantHandler := api.NewTenantHandler(database, s.Cfg)
	adminHandler := api.NewAdminHandler(database, s.Cfg, notifier)
	oneTapHandler := handlers.NewOneTapHandler(database, s.Cfg, signer)
	pageHandler := handlers.NewPageHandler(database, s.Cfg)
	probeHandler := handlers.NewProbeHandler(database)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Public review API
	s.App.Post("/api/reviews", reviewHandler.Submit)
	s.App.Post("/api/reviews/:id/feedback", reviewHandler.AttachFeedback)
	s.App.Get("/api/tenants/:slug", tenantHandler.Resolve)

	// Operator API - only available when OIDC is configured
	if s.Cfg.OIDCIssuer != "" {
		authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg)
		if err != nil {
			return err
		}

		s.App.Get("/auth/login", authHandler.Login)
		s.App.Get("/auth/callback", authHandler.Callback)
		s.App.Get("/auth/logout", authHandler.Logout)

		admin := s.App.Group("/api/admin", authMiddleware.RequireOperator)
		admin.Post("/tenants", adminHandler.CreateTenant)
		admin.Get("/tenants", adminHandler.ListTenants)
		admin.Post("/tenants/:slug/status", adminHandler.UpdateTenantStatus)
		admin.Get("/tenants/:slug/reviews", adminHandler.ListReviews)
		admin.Post("/tenants/:slug/review-requests", adminHandler.SendReviewRequest)
	} else {
		log.Println("OIDC is not configured. Operator API is disabled. Set OIDC_ISSUER to enable.")
	}

	// Public review pages - /r/:slug is the one-tap landing route
	s.App.Get("/r/:slug", oneTapHandler.Land)
	s.App.Get("/r/:slug/feedback/:id", pageHandler.Feedback)
	s.App.Get("/r/:slug/thanks", pageHandler.Thanks)

	return nil
}
