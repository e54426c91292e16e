package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/phee/operations/api/internal/config"
	"github.com/phee/operations/api/internal/middleware"
)

// newApp builds the Fiber application with the global middleware chain and
// every route registered. rateLimiter may be nil.
func newApp(cfg *config.Config, logger *zap.Logger, h *Handlers, rateLimiter *middleware.RateLimitMiddleware, sentryEnabled bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Payment Hub Operations API",
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
		DisableStartupMessage: cfg.IsProduction(),
		ErrorHandler:          middleware.ErrorHandler(logger, sentryEnabled),
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Recover(logger, sentryEnabled))
	app.Use(middleware.NewLoggerMiddleware(middleware.DefaultLoggerConfig(logger)).Handler())
	app.Use(middleware.Metrics(middleware.HealthSkipper))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,HEAD,OPTIONS",
	}))
	if rateLimiter != nil {
		app.Use(rateLimiter.Handler())
	}

	registerRoutes(app, h)

	return app
}

// registerRoutes registers all HTTP routes
func registerRoutes(app *fiber.App, h *Handlers) {
	h.Health.RegisterRoutes(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	h.Transactions.RegisterRoutes(app)
	h.Audit.RegisterRoutes(app)
}
