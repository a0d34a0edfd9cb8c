package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const DefaultCORSOrigins = "http://localhost:3000, http://localhost:5173"

// SetupCORS allows the comma separated origins, credentials included so the
// token cookie reaches the API.
func SetupCORS(origins string) fiber.Handler {
	if origins == "" {
		origins = DefaultCORSOrigins
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowCredentials: true,
		ExposeHeaders:    "Content-Length, X-Request-ID",
		MaxAge:           86400, // Pre-flight request can be cached for 1 day
	})
}
