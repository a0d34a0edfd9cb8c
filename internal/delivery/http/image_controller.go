package http

import (
	"github.com/ferdian3456/brewlog/internal/media"
	"github.com/ferdian3456/brewlog/internal/usecase"
	"github.com/ferdian3456/brewlog/internal/util"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ImageController serves the image endpoints of coffees and brews. Each
// handler factory binds one category.
type ImageController struct {
	ImageUsecase *usecase.ImageUsecase
	Log          *zap.Logger
}

func NewImageController(imageUsecase *usecase.ImageUsecase, zap *zap.Logger) *ImageController {
	return &ImageController{
		ImageUsecase: imageUsecase,
		Log:          zap,
	}
}

func (controller ImageController) Upload(category media.Category) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		entityId, err := parseIdParam(ctx, "id")
		if err != nil {
			return sendError(ctx, controller.Log, err)
		}

		uploads, err := readUploads(ctx, "images")
		if err != nil {
			return sendError(ctx, controller.Log, err)
		}

		response, err := controller.ImageUsecase.Upload(ctx.UserContext(), category, entityId, currentUserId(ctx), uploads)
		if err != nil {
			return sendError(ctx, controller.Log, err)
		}

		return util.SendSuccessResponseWithData(ctx, response)
	}
}

func (controller ImageController) Delete(category media.Category) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		entityId, err := parseIdParam(ctx, "id")
		if err != nil {
			return sendError(ctx, controller.Log, err)
		}

		imageId, err := parseIdParam(ctx, "imageId")
		if err != nil {
			return sendError(ctx, controller.Log, err)
		}

		response, err := controller.ImageUsecase.Delete(ctx.UserContext(), category, entityId, currentUserId(ctx), imageId)
		if err != nil {
			return sendError(ctx, controller.Log, err)
		}

		return util.SendSuccessResponseWithData(ctx, response)
	}
}

func (controller ImageController) SetPrimary(category media.Category) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		entityId, err := parseIdParam(ctx, "id")
		if err != nil {
			return sendError(ctx, controller.Log, err)
		}

		imageId, err := parseIdParam(ctx, "imageId")
		if err != nil {
			return sendError(ctx, controller.Log, err)
		}

		response, err := controller.ImageUsecase.SetPrimary(ctx.UserContext(), category, entityId, currentUserId(ctx), imageId)
		if err != nil {
			return sendError(ctx, controller.Log, err)
		}

		return util.SendSuccessResponseWithData(ctx, response)
	}
}
