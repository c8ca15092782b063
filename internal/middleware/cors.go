package middleware

import (
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS lets the dashboard call the API from CORS_ORIGINS. Credentials are only
// allowed for an explicit origin list, never for "*".
func CORS(cfg *config.Config) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept, X-Request-ID",
		AllowMethods:     "GET, POST, PUT, OPTIONS",
		ExposeHeaders:    "X-Request-ID",
		AllowCredentials: cfg.CORSOrigins != "*",
		MaxAge:           600,
	})
}
