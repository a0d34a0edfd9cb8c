package exception

import (
	"errors"
	"fmt"

	"github.com/ferdian3456/brewlog/internal/constant"
	"github.com/ferdian3456/brewlog/internal/model"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Resolve maps an error to its HTTP status and response body.
func Resolve(err error) (int, *model.ValidationError) {
	var validationErr *model.ValidationError
	var capacityErr *model.CapacityExceededError
	var processingErr *model.ProcessingError
	var notFoundErr *model.NotFoundError
	var forbiddenErr *model.ForbiddenError
	var conflictErr *model.ConflictError
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &validationErr):
		switch validationErr.Code {
		case constant.ERR_UNATHORIZED_ERROR:
			return fiber.StatusUnauthorized, validationErr
		case constant.ERR_NOT_FOUND_ERROR:
			return fiber.StatusNotFound, validationErr
		}
		return fiber.StatusBadRequest, validationErr
	case errors.As(err, &capacityErr):
		return fiber.StatusBadRequest, &model.ValidationError{
			Code:    constant.ERR_CAPACITY_EXCEEDED_ERROR,
			Message: capacityErr.Error(),
			Param:   "images",
		}
	case errors.As(err, &processingErr):
		return fiber.StatusUnprocessableEntity, &model.ValidationError{
			Code:    constant.ERR_PROCESSING_ERROR,
			Message: processingErr.Error(),
			Param:   processingErr.OriginalName,
		}
	case errors.As(err, &notFoundErr):
		return fiber.StatusNotFound, &model.ValidationError{
			Code:    constant.ERR_NOT_FOUND_ERROR,
			Message: notFoundErr.Error(),
			Param:   notFoundErr.Param,
		}
	case errors.As(err, &forbiddenErr):
		return fiber.StatusForbidden, &model.ValidationError{
			Code:    constant.ERR_FORBIDDEN_ERROR,
			Message: forbiddenErr.Error(),
		}
	case errors.As(err, &conflictErr):
		return fiber.StatusConflict, &model.ValidationError{
			Code:    constant.ERR_CONFLICT_ERROR,
			Message: conflictErr.Error(),
			Param:   conflictErr.Param,
		}
	case errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError:
		return fiberErr.Code, &model.ValidationError{
			Code:    fiberErrorCode(fiberErr.Code),
			Message: fiberErr.Message,
		}
	}

	return fiber.StatusInternalServerError, &model.ValidationError{
		Code:    constant.ERR_INTERNAL_SERVER_ERROR_CODE,
		Message: constant.ERR_INTENRAL_SERVER_ERROR_MESSAGE,
	}
}

func fiberErrorCode(status int) string {
	switch status {
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return constant.ERR_NOT_FOUND_ERROR
	case fiber.StatusRequestEntityTooLarge:
		return constant.ERR_VALIDATION_CODE
	case fiber.StatusTooManyRequests:
		return constant.ERR_TOO_MANY_REQUESTS_ERROR
	case fiber.StatusUnauthorized:
		return constant.ERR_UNATHORIZED_ERROR
	}
	return constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE
}

// ErrorHandler renders errors returned from handlers and fiber itself
// (unknown routes, oversized bodies) in the standard envelope.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		status, body := Resolve(err)
		if status == fiber.StatusInternalServerError {
			log.Error("unhandled error", zap.String("path", ctx.Path()), zap.Error(err))
		}

		return ctx.Status(status).JSON(fiber.Map{
			"error": body,
		})
	}
}

func Recovery(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				var errMsg string
				switch v := r.(type) {
				case error:
					errMsg = v.Error()
				case string:
					errMsg = v
				default:
					errMsg = fmt.Sprintf("%v", v)
				}

				log.Error("panic occurred and recovered",
					zap.String("error", errMsg),
					zap.String("path", c.Path()),
				)

				_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": fiber.Map{
						"code":    constant.ERR_INTERNAL_SERVER_ERROR_CODE,
						"message": constant.ERR_INTENRAL_SERVER_ERROR_MESSAGE,
					},
				})
			}
		}()

		return c.Next()
	}
}
