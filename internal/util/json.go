package util

import (
	"github.com/ferdian3456/brewlog/internal/exception"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func ReadRequestBody(ctx *fiber.Ctx, result interface{}) error {
	err := ctx.BodyParser(result)
	if err != nil {
		return err
	}
	return nil
}

func SendSuccessResponseNoData(ctx *fiber.Ctx) error {
	err := ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "OK",
	})
	if err != nil {
		return err
	}
	return nil
}

func SendSuccessResponseWithData(ctx *fiber.Ctx, data interface{}) error {
	err := ctx.Status(fiber.StatusOK).JSON(data)
	if err != nil {
		return err
	}

	return nil
}

func SendSuccessResponseCreated(ctx *fiber.Ctx, data interface{}) error {
	err := ctx.Status(fiber.StatusCreated).JSON(data)
	if err != nil {
		return err
	}

	return nil
}

func SendErrorResponse(ctx *fiber.Ctx, error error) error {
	err := ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": error,
	})
	if err != nil {
		return err
	}

	return nil
}

func SendErrorResponseNotFound(ctx *fiber.Ctx, error error) error {
	err := ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": error,
	})
	if err != nil {
		return err
	}

	return nil
}

func SendErrorResponseInternalServer(ctx *fiber.Ctx, log *zap.Logger, error error) error {
	return SendError(ctx, log, error)
}

// SendError writes the error envelope with the status its type maps to.
// Unknown errors are logged and hidden behind the generic 500 body.
func SendError(ctx *fiber.Ctx, log *zap.Logger, error error) error {
	status, body := exception.Resolve(error)
	if status == fiber.StatusInternalServerError {
		log.Error("internal server error occured",
			zap.String("path", ctx.Path()),
			zap.String("method", ctx.Method()),
			zap.Error(error),
		)
	}

	err := ctx.Status(status).JSON(fiber.Map{
		"error": body,
	})
	if err != nil {
		return err
	}

	return nil
}
