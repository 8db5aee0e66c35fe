package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/trip-planner/internal/api/http/handlers"
	"github.com/spec-kit/trip-planner/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Itineraries    *handlers.ItinerariesHandler
	Items          *handlers.ItemsHandler
	Expenses       *handlers.ExpensesHandler
	Collaborators  *handlers.CollaboratorsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	itineraries := app.Group("/itineraries", cfg.AuthMiddleware.Handle)
	itineraries.Get("/", cfg.Itineraries.List)
	itineraries.Post("/", cfg.Itineraries.Create)
	itineraries.Get("/:id", cfg.Itineraries.Get)
	itineraries.Put("/:id", cfg.Itineraries.Update)
	itineraries.Delete("/:id", cfg.Itineraries.Delete)

	itineraries.Post("/:id/items", cfg.Items.Create)
	itineraries.Delete("/:id/items/:itemId", cfg.Items.Delete)
	itineraries.Post("/:id/items/:itemId/vote", cfg.Items.Vote)

	itineraries.Post("/:id/expenses", cfg.Expenses.Create)
	itineraries.Patch("/:id/expenses/:expenseId", cfg.Expenses.Update)
	itineraries.Delete("/:id/expenses/:expenseId", cfg.Expenses.Delete)

	itineraries.Post("/:id/collaborators", cfg.Collaborators.Invite)
	itineraries.Patch("/:id/collaborators/:collaboratorId", cfg.Collaborators.Update)
	itineraries.Delete("/:id/collaborators/:collaboratorId", cfg.Collaborators.Delete)
}
