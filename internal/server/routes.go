package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"annuaire/internal/config"
	"annuaire/internal/db"
	"annuaire/internal/handlers"
	"annuaire/internal/handlers/api"
	"annuaire/internal/middleware"
	"annuaire/internal/moderation"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB, tax *config.Taxonomy, engine *moderation.Engine) error {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(s.SessionStore, database)

	// Initialize handlers
	dentistHandler := handlers.NewDentistHandler(database, s.Cfg, tax)
	submissionHandler := handlers.NewSubmissionHandler(database, s.Cfg, tax)
	leadHandler := handlers.NewLeadHandler(database, s.Cfg)
	dashboardHandler := handlers.NewDashboardHandler(database, s.Cfg, tax)
	moderationHandler := handlers.NewModerationHandler(database, s.Cfg, engine)
	adminHandler := handlers.NewAdminHandler(database, s.Cfg, tax)
	probeHandler := handlers.NewProbeHandler(database)

	// Auth routes
	if s.Cfg.OIDCIssuer != "" {
		authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, database)
		if err != nil {
			return err
		}
		s.App.Get("/auth/login", authHandler.Login)
		s.App.Get("/auth/callback", authHandler.Callback)
		s.App.Get("/auth/logout", authHandler.Logout)
	} else {
		log.Println("OIDC authentication is disabled. Set OIDC_ISSUER to enable.")
	}

	// Login page (always available)
	s.App.Get("/login", func(c fiber.Ctx) error {
		return c.Render("login", handlers.MergeBranding(fiber.Map{}, s.Cfg))
	})

	// Public directory
	s.App.Get("/", authMiddleware.OptionalAuth, dentistHandler.Home)
	s.App.Get("/search", authMiddleware.OptionalAuth, dentistHandler.Search)
	s.App.Get("/dentiste/:slug", authMiddleware.OptionalAuth, dentistHandler.Show)

	// Submission flow (anonymous or signed in)
	s.App.Get("/ajouter-cabinet", authMiddleware.OptionalAuth, submissionHandler.New)
	s.App.Post("/ajouter-cabinet", authMiddleware.OptionalAuth, submissionHandler.Create)

	// Lead capture (anonymous)
	s.App.Post("/leads", leadHandler.Create)

	// Owner dashboard
	s.App.Get("/dashboard", authMiddleware.RequireAuth, dashboardHandler.Index)
	s.App.Post("/dashboard/listing", authMiddleware.RequireAuth, dashboardHandler.UpdateListing)
	s.App.Post("/dashboard/leads/:id/read", authMiddleware.RequireAuth, dashboardHandler.MarkLeadRead)

	// Moderation queue (admins only)
	s.App.Get("/moderation", authMiddleware.RequireAdmin, moderationHandler.Index)
	s.App.Post("/moderation/:id/approve", authMiddleware.RequireAdmin, moderationHandler.Approve)
	s.App.Post("/moderation/:id/reject", authMiddleware.RequireAdmin, moderationHandler.Reject)
	s.App.Post("/moderation/:id/link", authMiddleware.RequireAdmin, moderationHandler.Link)

	// Admin console (admins only)
	s.App.Get("/admin", authMiddleware.RequireAdmin, adminHandler.Index)
	s.App.Post("/admin/dentists", authMiddleware.RequireAdmin, adminHandler.Create)
	s.App.Post("/admin/dentists/:id", authMiddleware.RequireAdmin, adminHandler.Update)
	s.App.Post("/admin/dentists/:id/verified", authMiddleware.RequireAdmin, adminHandler.SetVerified)
	s.App.Post("/admin/dentists/:id/premium", authMiddleware.RequireAdmin, adminHandler.SetPremium)
	s.App.Delete("/admin/dentists/:id", authMiddleware.RequireAdmin, adminHandler.Delete)

	// JSON API
	apiDentists := api.NewDentistHandler(database)
	apiLeads := api.NewLeadHandler(database)
	apiModeration := api.NewModerationHandler(database, engine)

	v1 := s.App.Group("/api/v1")
	v1.Get("/dentists", apiDentists.Search)
	v1.Get("/dentists/:slug", apiDentists.Get)
	v1.Get("/stats", apiDentists.Stats)
	v1.Post("/leads", apiLeads.Create)
	v1.Get("/leads", authMiddleware.RequireAuthAPI, apiLeads.List)
	v1.Post("/leads/:id/read", authMiddleware.RequireAuthAPI, apiLeads.MarkRead)
	v1.Get("/moderation/pending", authMiddleware.RequireAuthAPI, apiModeration.ListPending)
	v1.Post("/moderation/:id/approve", authMiddleware.RequireAuthAPI, apiModeration.Approve)
	v1.Post("/moderation/:id/reject", authMiddleware.RequireAuthAPI, apiModeration.Reject)
	v1.Post("/moderation/:id/link", authMiddleware.RequireAuthAPI, apiModeration.Link)

	// Observability
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return nil
}
