package http

import (
	"context"
	"time"

	"github.com/ferdian3456/brewlog/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type HealthController struct {
	UserUsecase *usecase.UserUsecase
	Log         *zap.Logger
}

func NewHealthController(userUsecase *usecase.UserUsecase, zap *zap.Logger) *HealthController {
	return &HealthController{
		UserUsecase: userUsecase,
		Log:         zap,
	}
}

func (controller HealthController) Health(ctx *fiber.Ctx) error {
	pingCtx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
	defer cancel()

	err := controller.UserUsecase.Health(pingCtx)
	if err != nil {
		controller.Log.Warn("health check failed", zap.Error(err))
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "OK",
	})
}
