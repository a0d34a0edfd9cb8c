package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/ferdian3456/brewlog/internal/constant"
	"github.com/ferdian3456/brewlog/internal/exception"
	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/ferdian3456/brewlog/internal/util"
	"github.com/google/uuid"

	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type errorPayload struct {
	Error model.ValidationError `json:"error"`
}

type stubTokenChecker struct {
	err error
}

func (s stubTokenChecker) GetAccessToken(ctx context.Context, userId uuid.UUID, accessToken string) error {
	return s.err
}

func newAuthApp(t *testing.T, checker AccessTokenChecker, optional bool) *fiber.App {
	t.Helper()

	k := koanf.New(".")
	require.NoError(t, k.Set("JWT_SECRET_KEY", testSecret))

	auth := NewAuthMiddleware(zap.NewNop(), k, checker)
	handler := auth.ProtectedRoute()
	if optional {
		handler = auth.OptionalAuth()
	}

	app := fiber.New(fiber.Config{ErrorHandler: exception.ErrorHandler(zap.NewNop())})
	app.Get("/me", handler, func(c *fiber.Ctx) error {
		userId, ok := c.Locals("userId").(uuid.UUID)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(userId.String())
	})

	return app
}

func TestProtectedRoute(t *testing.T) {
	userId := uuid.New()
	token, err := util.GenerateAccessToken(userId, testSecret)
	require.NoError(t, err)

	t.Run("bearer header", func(t *testing.T) {
		app := newAuthApp(t, stubTokenChecker{}, false)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, userId.String(), string(body))
	})

	t.Run("token cookie", func(t *testing.T) {
		app := newAuthApp(t, stubTokenChecker{}, false)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Cookie", TokenCookieName+"="+token)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing token", func(t *testing.T) {
		app := newAuthApp(t, stubTokenChecker{}, false)

		resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		var body errorPayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, constant.ERR_UNATHORIZED_ERROR, body.Error.Code)
	})

	t.Run("revoked session", func(t *testing.T) {
		app := newAuthApp(t, stubTokenChecker{err: &model.ValidationError{
			Code:    constant.ERR_UNATHORIZED_ERROR,
			Message: "Authorization token is expired",
			Param:   "accessToken",
		}}, false)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong secret", func(t *testing.T) {
		app := newAuthApp(t, stubTokenChecker{}, false)

		forged, err := util.GenerateAccessToken(userId, "another-secret")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+forged)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestOptionalAuth(t *testing.T) {
	userId := uuid.New()
	token, err := util.GenerateAccessToken(userId, testSecret)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"anonymous", "", "anonymous"},
		{"invalid token", "Bearer garbage", "anonymous"},
		{"valid token", "Bearer " + token, userId.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newAuthApp(t, stubTokenChecker{}, true)

			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.want, string(body))
		})
	}
}

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(RequestIDLocalKey).(string))
	})

	t.Run("generated", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
		require.NoError(t, err)

		id := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, id)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, id, string(body))
	})

	t.Run("preserved", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, "brew-123")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, "brew-123", resp.Header.Get(RequestIDHeader))
	})
}

func TestPrometheusMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	promMiddleware, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(promMiddleware.Handler())
	app.Get("/api/coffees/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/metrics", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/error", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "bad request")
	})

	_, err = app.Test(httptest.NewRequest("GET", "/api/coffees/"+uuid.NewString(), nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest("GET", "/error", nil))
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(promMiddleware.requestCount.WithLabelValues("GET", "/api/coffees/:id", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(promMiddleware.requestCount.WithLabelValues("GET", "/error", "400")))
	assert.Equal(t, float64(0), testutil.ToFloat64(promMiddleware.requestCount.WithLabelValues("GET", "/metrics", "200")))
	assert.Equal(t, 2, testutil.CollectAndCount(promMiddleware.requestDuration))

	_, err = NewPrometheusMiddleware(reg)
	assert.Error(t, err)
}

func TestAuthRateLimiter(t *testing.T) {
	app := fiber.New()
	app.Post("/login", SetupAuthRateLimiter(zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	var last int
	for i := 0; i < 11; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
		require.NoError(t, err)
		last = resp.StatusCode
		if i < 10 {
			assert.Equal(t, fiber.StatusOK, last)
		}
	}
	assert.Equal(t, fiber.StatusTooManyRequests, last)
}
