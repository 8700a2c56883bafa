package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/team-service/internal/api/http/handlers"
	"github.com/spec-kit/team-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Teams   *handlers.TeamsHandler
	Members *handlers.MembersHandler
	Metrics *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")

	api.Get("/teams", cfg.Teams.List)
	api.Post("/teams", cfg.Teams.Create)
	api.Get("/teams/:id", cfg.Teams.Get)
	api.Put("/teams/:id", cfg.Teams.Update)
	api.Delete("/teams/:id", cfg.Teams.Delete)

	api.Get("/teams/:id/members", cfg.Members.ListByTeam)
	api.Post("/teams/:id/members", cfg.Members.Add)

	api.Put("/members/:id", cfg.Members.Update)
	api.Delete("/members/:id", cfg.Members.Delete)
}
