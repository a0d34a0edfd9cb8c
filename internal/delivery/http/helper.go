package http

import (
	"io"

	"github.com/ferdian3456/brewlog/internal/constant"
	"github.com/ferdian3456/brewlog/internal/media"
	"github.com/ferdian3456/brewlog/internal/middleware"
	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/ferdian3456/brewlog/internal/util"
	"github.com/google/uuid"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var errInvalidRequestBody = &model.ValidationError{
	Code:    constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE,
	Message: constant.ERR_INVALID_REQUEST_BODY_MESSAGE,
}

// currentUserId returns the authenticated user, or uuid.Nil on routes where
// authentication is optional.
func currentUserId(ctx *fiber.Ctx) uuid.UUID {
	userId, ok := ctx.Locals("userId").(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userId
}

func parseIdParam(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Invalid id",
			Param:   name,
		}
	}
	return id, nil
}

func sendError(ctx *fiber.Ctx, log *zap.Logger, err error) error {
	return util.SendError(ctx, middleware.GetLoggerFromContext(ctx, log), err)
}

// readUploads loads every file of a multipart field into memory. A request
// without a multipart body yields an empty batch.
func readUploads(ctx *fiber.Ctx, field string) ([]media.Upload, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, nil
	}

	headers := form.File[field]
	uploads := make([]media.Upload, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, err
		}

		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, err
		}

		uploads = append(uploads, media.Upload{
			OriginalName: header.Filename,
			ContentType:  header.Header.Get("Content-Type"),
			Size:         header.Size,
			Data:         data,
		})
	}

	return uploads, nil
}
