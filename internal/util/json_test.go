package util

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/ferdian3456/brewlog/internal/constant"
	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSendError(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	log := zap.New(core)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", &model.NotFoundError{Resource: "Brew", Param: "id"}, fiber.StatusNotFound, constant.ERR_NOT_FOUND_ERROR},
		{"capacity", &model.CapacityExceededError{Max: 10, Requested: 11}, fiber.StatusBadRequest, constant.ERR_CAPACITY_EXCEEDED_ERROR},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError, constant.ERR_INTERNAL_SERVER_ERROR_CODE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(ctx *fiber.Ctx) error {
				return SendError(ctx, log, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body struct {
				Error model.ValidationError `json:"error"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}

	assert.Equal(t, 1, logs.Len())
}
