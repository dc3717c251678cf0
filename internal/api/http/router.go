package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/apartment-bureau/landing-service/internal/api/http/handlers"
	"github.com/apartment-bureau/landing-service/internal/gate"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Landing  *handlers.LandingHandler
	Articles *handlers.ArticlesHandler
	Admin    *handlers.AdminHandler
	Gate     *gate.Middleware
}

// RegisterRoutes wires HTTP routes. The gate middleware is mounted before the
// admin routes: requests reach them only on the canonical /admin paths, after
// the token segment has been verified and stripped.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Gate.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/", cfg.Landing.Index)
	app.Post("/contact", cfg.Landing.Contact)
	app.Get("/articles", cfg.Articles.List)
	app.Get("/articles/:slug", cfg.Articles.Detail)

	admin := app.Group("/admin")
	admin.Get("/", cfg.Admin.Console)
	admin.Get("/applications", cfg.Admin.Applications)
	admin.Patch("/applications/:id", cfg.Admin.UpdateApplicationStatus)
	admin.Get("/subscribers", cfg.Admin.Subscribers)
	admin.Patch("/subscribers/:id", cfg.Admin.SetSubscriberActive)
	admin.Get("/articles", cfg.Admin.Articles)
	admin.Post("/broadcast", cfg.Admin.Broadcast)
}
