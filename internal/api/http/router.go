package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/staffclock/attendance-service/internal/api/http/handlers"
	"github.com/staffclock/attendance-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Staff          *handlers.StaffHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	app.Post("/auth/login", cfg.Auth.Login)

	staff := app.Group("/staff", cfg.AuthMiddleware.Handle)
	staff.Post("", cfg.Staff.Create)
}
