package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/analytics"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/marker"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/platform"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/settings"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/submit"
)

type Dependencies struct {
	SettingsManager *settings.Manager
	Markers         *marker.Store
	Platform        *platform.Client
	Analytics       *analytics.Emitter
}

type Router struct {
	app             *fiber.App
	logger          *slog.Logger
	deps            *Dependencies
	rateLimiter     *middleware.RateLimiter
	cancelAnalytics context.CancelFunc
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Popupkit API",
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	var settingsSource handler.SettingsReadiness
	if r.deps != nil {
		settingsSource = r.deps.SettingsManager
	}

	// Health check endpoints
	healthHandler := handler.NewHealthHandler(settingsSource)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// API v1 group
	v1 := r.app.Group("/v1")

	// Only configure widget routes if dependencies were provided
	if r.deps != nil {
		// Start the analytics emitter
		ctx, cancel := context.WithCancel(context.Background())
		r.cancelAnalytics = cancel
		go r.deps.Analytics.Run(ctx)

		// Submission chain: create-account first, newsletter fallback
		chain := submit.NewChain(r.logger,
			submit.NewAccountStrategy(r.deps.Platform),
			submit.NewNewsletterStrategy(r.deps.Platform),
		)

		widgetHandler := handler.NewWidgetHandler(
			r.deps.SettingsManager,
			r.deps.Markers,
			chain,
			r.deps.Analytics,
			r.logger,
		)

		// Widget routes. Only the submission endpoint is rate limited; the
		// config endpoint is read-only and cheap.
		v1.Get("/widget/config", widgetHandler.Config)

		r.rateLimiter = middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
		v1.Post("/widget/subscribe", r.rateLimiter.Handler(), widgetHandler.Subscribe)
		v1.Post("/widget/dismiss", widgetHandler.Dismiss)
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	// Stop the analytics emitter
	if r.cancelAnalytics != nil {
		r.cancelAnalytics()
	}

	// Stop rate limiter cleanup goroutine
	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	return r.app.Shutdown()
}
