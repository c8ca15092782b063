package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/config"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/models"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth   *handlers.AuthHandler
	Health *handlers.HealthHandler
	Report *handlers.ReportHandler
	Geo    *handlers.GeoHandler
}

func Setup(app *fiber.App, cfg *config.Config, authService *services.AuthService, h Handlers) {
	api := app.Group("/api")

	// General API rate limit per IP
	api.Use(limiter.New(limiter.Config{
		Max:               cfg.RateLimit,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)
	api.Get("/meta", h.Report.Meta)

	// Login has its own stricter limit
	auth := api.Group("/auth")
	auth.Post("/login", limiter.New(limiter.Config{
		Max:               cfg.LoginRateLimit,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}), h.Auth.Login)

	protected := []fiber.Handler{
		middleware.JWTProtected(cfg.JWTSecret),
		middleware.SessionRequired(authService),
	}
	auth.Post("/logout", append(protected, h.Auth.Logout)...)
	auth.Get("/me", append(protected, h.Auth.Me)...)

	reports := api.Group("/reports", protected...)
	reports.Get("/", h.Report.List)
	reports.Post("/", middleware.RoleRequired(models.RoleSubmitter), h.Report.Create)
	reports.Get("/stats", h.Report.Stats)
	reports.Get("/:id", h.Report.Get)
	reports.Put("/:id/status", middleware.RoleRequired(models.RoleReviewer, models.RoleFulfiller), h.Report.UpdateStatus)
	reports.Post("/:id/reviewer-reply", middleware.RoleRequired(models.RoleReviewer), h.Report.ReviewerReply)
	reports.Put("/:id/assignment", middleware.RoleRequired(models.RoleReviewer), h.Report.Assign)
	reports.Post("/:id/fulfiller-reply", middleware.RoleRequired(models.RoleFulfiller), h.Report.FulfillerReply)

	api.Get("/fulfillers", append(protected, middleware.RoleRequired(models.RoleReviewer), h.Report.Fulfillers)...)
	api.Post("/geo/locate", append(protected, h.Geo.Locate)...)
}
