package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/config"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/handler"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/middleware"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/models"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler          *handler.AuthHandler
	LoopHandler          *handler.LoopHandler
	AdminUserHandler     *handler.AdminUserHandler
	AdminActivityHandler *handler.AdminActivityHandler
	SettingsHandler      *handler.SettingsHandler
	NotificationHandler  *handler.NotificationHandler
	JWTMiddleware        fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		auth.Use("/login", middleware.RateLimit("login", 10, time.Minute))
		deps.AuthHandler.Register(auth)
		deps.AuthHandler.RegisterProtected(auth.Group("", jwtMiddleware))
	}

	if deps.LoopHandler != nil {
		deps.LoopHandler.Register(api.Group("/loops", jwtMiddleware))
	}

	if deps.SettingsHandler != nil {
		deps.SettingsHandler.Register(api.Group("/settings", jwtMiddleware))
	}

	if deps.NotificationHandler != nil {
		deps.NotificationHandler.Register(api.Group("/notifications", jwtMiddleware))
	}

	admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(models.RoleAdmin))
	if deps.AdminUserHandler != nil {
		deps.AdminUserHandler.Register(admin)
	}
	if deps.AdminActivityHandler != nil {
		deps.AdminActivityHandler.Register(admin)
	}
}
