package config

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/ferdian3456/brewlog/internal/constant"
	"github.com/ferdian3456/brewlog/internal/exception"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func NewFiber(log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		Prefork: false,
		AppName: "brewlog",
		// a full coffee batch plus multipart overhead
		BodyLimit:             constant.MAX_COFFEE_IMAGES*constant.MAX_IMAGE_FILE_SIZE + 2*1024*1024,
		ReadBufferSize:        8192,
		WriteBufferSize:       4096,
		Concurrency:           256 * 1024,
		IdleTimeout:           30 * time.Second,
		ReadTimeout:           60 * time.Second,
		WriteTimeout:          60 * time.Second,
		DisableKeepalive:      false,
		DisableStartupMessage: true,
		ReduceMemoryUsage:     true,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          exception.ErrorHandler(log),
	})

	return app
}
