package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTraceLoggerMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	fallback := zap.NewNop()

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(requestIDLocalKey, "req-1")
		return c.Next()
	})
	app.Use(TraceLoggerMiddleware(zap.New(core)))
	app.Get("/", func(c *fiber.Ctx) error {
		GetLoggerFromContext(c, fallback).Info("handled")
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.NotContains(t, fields, "trace_id")
}

func TestGetLoggerFromContextFallback(t *testing.T) {
	fallback := zap.NewNop()
	app := fiber.New()
	var got *zap.Logger
	app.Get("/", func(c *fiber.Ctx) error {
		got = GetLoggerFromContext(c, fallback)
		return nil
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Same(t, fallback, got)
}
