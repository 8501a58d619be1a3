package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/intake-service/internal/api/http/handlers"
	"github.com/spec-kit/intake-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	AdminTickets   *handlers.AdminTicketsHandler
	Users          *handlers.UsersHandler
	Teams          *handlers.TeamsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// Public intake surface. No session required.
	app.Post("/tickets", cfg.Tickets.Submit)
	app.Get("/tickets/status", cfg.Tickets.Status)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Users.Login)

	protected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	protected.Post("/password/change", cfg.Users.ChangePassword)

	// Triage surface. Restricted accounts see it filtered to their
	// allowed ticket types, so any active session may enter.
	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	admin.Post("/tickets/:id", cfg.AdminTickets.Update)
	admin.Get("/dashboard", cfg.AdminTickets.Dashboard)
	admin.Get("/export", cfg.AdminTickets.Export)

	manage := admin.Group("", auth.RequireAdmin())
	manage.Post("/users", cfg.Users.Create)
	manage.Get("/users", cfg.Users.List)
	manage.Post("/users/:username/status", cfg.Users.SetStatus)

	manage.Post("/teams", cfg.Teams.Add)
	manage.Get("/teams", cfg.Teams.List)
	manage.Delete("/teams/:name", cfg.Teams.Delete)

	manage.Get("/audit", cfg.Teams.AuditLog)
}
