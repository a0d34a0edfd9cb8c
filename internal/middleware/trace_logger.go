package middleware

import (
	"github.com/ferdian3456/brewlog/internal/observability"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	LoggerLocalKey    = "logger"
	requestIDLocalKey = "request_id"
)

// TraceLoggerMiddleware stores a request logger carrying the trace ids and
// the request id in the request locals.
func TraceLoggerMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestLogger := observability.WithContext(c.UserContext(), logger)
		if requestID, ok := c.Locals(requestIDLocalKey).(string); ok {
			requestLogger = requestLogger.With(zap.String("request_id", requestID))
		}

		c.Locals(LoggerLocalKey, requestLogger)

		return c.Next()
	}
}

// GetLoggerFromContext returns the request logger, or fallback when the
// middleware did not run.
func GetLoggerFromContext(c *fiber.Ctx, fallback *zap.Logger) *zap.Logger {
	if logger, ok := c.Locals(LoggerLocalKey).(*zap.Logger); ok {
		return logger
	}

	return fallback
}
