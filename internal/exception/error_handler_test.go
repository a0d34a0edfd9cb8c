package exception

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/ferdian3456/brewlog/internal/constant"
	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", &model.ValidationError{Code: constant.ERR_VALIDATION_CODE, Message: "bad"}, 400, constant.ERR_VALIDATION_CODE},
		{"unauthorized", &model.ValidationError{Code: constant.ERR_UNATHORIZED_ERROR, Message: "no token"}, 401, constant.ERR_UNATHORIZED_ERROR},
		{"capacity", &model.CapacityExceededError{Max: 10, Requested: 11}, 400, constant.ERR_CAPACITY_EXCEEDED_ERROR},
		{"processing", &model.ProcessingError{OriginalName: "a.jpg"}, 422, constant.ERR_PROCESSING_ERROR},
		{"not found", &model.NotFoundError{Resource: "Coffee"}, 404, constant.ERR_NOT_FOUND_ERROR},
		{"forbidden", &model.ForbiddenError{Message: "Access denied"}, 403, constant.ERR_FORBIDDEN_ERROR},
		{"conflict", &model.ConflictError{Message: "taken"}, 409, constant.ERR_CONFLICT_ERROR},
		{"storage", &model.StorageError{Op: "write", Err: errors.New("disk full")}, 500, constant.ERR_INTERNAL_SERVER_ERROR_CODE},
		{"wrapped not found", fmt.Errorf("load: %w", &model.NotFoundError{Resource: "Brew"}), 404, constant.ERR_NOT_FOUND_ERROR},
		{"fiber 413", fiber.ErrRequestEntityTooLarge, 413, constant.ERR_VALIDATION_CODE},
		{"plain", errors.New("boom"), 500, constant.ERR_INTERNAL_SERVER_ERROR_CODE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := Resolve(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestResolveHidesInternalMessage(t *testing.T) {
	_, body := Resolve(&model.StorageError{Op: "put", Key: "coffees/x/secret", Err: errors.New("s3 down")})

	assert.Equal(t, constant.ERR_INTENRAL_SERVER_ERROR_MESSAGE, body.Message)
	assert.NotContains(t, body.Message, "secret")
}

func TestRecovery(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Use(Recovery(zap.NewNop()))
	app.Get("/panic", func(ctx *fiber.Ctx) error {
		panic("kaboom")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]map[string]string
	require.NoError(t, sonic.Unmarshal(raw, &body))
	assert.Equal(t, constant.ERR_INTERNAL_SERVER_ERROR_CODE, body["error"]["code"])
}

func TestErrorHandlerUnknownRoute(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})

	resp, err := app.Test(httptest.NewRequest("GET", "/nowhere", nil))

	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
