package http

import (
	"github.com/gofiber/fiber/v2"

	graphqlapi "github.com/spec-kit/taskboard/internal/api/graphql"
	"github.com/spec-kit/taskboard/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	GraphQL *graphqlapi.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/graphql", cfg.GraphQL.Post)
}
