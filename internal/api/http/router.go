package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qasim12343/MarketPlace-sub002/internal/api/http/handlers"
	"github.com/qasim12343/MarketPlace-sub002/internal/auth"
	"github.com/qasim12343/MarketPlace-sub002/internal/observability"
)

// RouteConfig aggregates handler dependencies for route registration.
type RouteConfig struct {
	HealthHandler    *handlers.HealthHandler
	OwnerSession     *handlers.SessionHandler
	UserSession      *handlers.SessionHandler
	OrdersHandler    *handlers.OrdersHandler
	AuthMiddleware   *auth.AuthMiddleware
	CredentialsLimit fiber.Handler
	Metrics          *observability.Metrics
}

// RegisterRoutes wires HTTP routes to handlers.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	health := app.Group("/health")
	health.Get("/live", cfg.HealthHandler.Live)
	health.Get("/ready", cfg.HealthHandler.Ready)

	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	limit := cfg.CredentialsLimit
	if limit == nil {
		limit = func(c *fiber.Ctx) error { return c.Next() }
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/owner-login", limit, cfg.OwnerSession.Login)
	authGroup.Post("/owner-register", limit, cfg.OwnerSession.Register)
	authGroup.Get("/owner-session", cfg.OwnerSession.Session)
	authGroup.Post("/owner-refresh", limit, cfg.OwnerSession.Refresh)
	app.Post("/auth-owner/logout", cfg.OwnerSession.Logout)

	authGroup.Post("/user-login", limit, cfg.UserSession.Login)
	authGroup.Post("/user-register", limit, cfg.UserSession.Register)
	authGroup.Get("/user-session", cfg.UserSession.Session)
	authGroup.Post("/user-refresh", limit, cfg.UserSession.Refresh)
	authGroup.Post("/user-logout", cfg.UserSession.Logout)

	orders := app.Group("/orders", cfg.AuthMiddleware.Handle, auth.RequireAnyKind())
	orders.Post("", auth.RequireUser(), cfg.OrdersHandler.Create)
	orders.Get("/recent", cfg.OrdersHandler.Recent)
	orders.Get("/:id", cfg.OrdersHandler.Get)
	orders.Get("/:id/timeline", cfg.OrdersHandler.Timeline)
	orders.Get("/:id/history", cfg.OrdersHandler.History)
	orders.Post("/:id/status", cfg.OrdersHandler.AdvanceStatus)
}
