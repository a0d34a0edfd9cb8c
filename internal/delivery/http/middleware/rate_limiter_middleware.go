package middleware

import (
	"time"

	"github.com/ferdian3456/brewlog/internal/constant"
	"github.com/ferdian3456/brewlog/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
)

func tooManyRequests(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error": &model.ValidationError{
			Code:    constant.ERR_TOO_MANY_REQUESTS_ERROR,
			Message: message,
		},
	})
}

// SetupRateLimiter configures rate limiting middleware for the application
func SetupRateLimiter(logger *zap.Logger) fiber.Handler {
	return limiter.New(limiter.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/api/health" || c.Path() == "/metrics"
		},
		Max:        300,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			logger.Warn("Rate limit exceeded", zap.String("ip", c.IP()))
			return tooManyRequests(c, "Rate limit exceeded, please try again later")
		},
	})
}

// SetupAuthRateLimiter is the stricter limit for credential endpoints.
func SetupAuthRateLimiter(logger *zap.Logger) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        10,
		Expiration: 5 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			logger.Warn("Auth rate limit exceeded", zap.String("ip", c.IP()))
			return tooManyRequests(c, "Too many authentication attempts, please try again later")
		},
	})
}
