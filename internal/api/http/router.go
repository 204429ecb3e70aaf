package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/parking-ticket-service/internal/api/http/handlers"
	"github.com/spec-kit/parking-ticket-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authn := cfg.AuthMiddleware.Handle
	admin := auth.RequireAdmin()

	users := app.Group("/users")
	users.Post("/login", cfg.Users.Login)
	users.Post("/list", authn, admin, cfg.Users.List)
	// bulk-update must precede the :id routes or fiber would match it
	// as an id parameter.
	users.Patch("/bulk-update", authn, admin, cfg.Users.BulkUpdate)
	users.Post("/", authn, admin, cfg.Users.Create)
	users.Get("/:id", authn, admin, cfg.Users.Get)
	users.Patch("/:id", authn, admin, cfg.Users.Update)
	users.Delete("/:id", authn, admin, cfg.Users.Delete)

	tickets := app.Group("/tickets", authn)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/my-tickets", cfg.Tickets.MyTickets)
	tickets.Get("/collections", admin, cfg.Tickets.Collections)
	tickets.Get("/:vehicleNumber", cfg.Tickets.GetByVehicleNumber)
}
