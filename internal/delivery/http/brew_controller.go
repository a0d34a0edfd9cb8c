package http

import (
	"github.com/ferdian3456/brewlog/internal/constant"
	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/ferdian3456/brewlog/internal/usecase"
	"github.com/ferdian3456/brewlog/internal/util"
	"github.com/google/uuid"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type BrewController struct {
	BrewUsecase *usecase.BrewUsecase
	Log         *zap.Logger
}

func NewBrewController(brewUsecase *usecase.BrewUsecase, zap *zap.Logger) *BrewController {
	return &BrewController{
		BrewUsecase: brewUsecase,
		Log:         zap,
	}
}

func readBrewFilter(ctx *fiber.Ctx) model.BrewListFilter {
	return model.BrewListFilter{
		ViewerId:   currentUserId(ctx),
		BrewMethod: ctx.Query("brewMethod"),
		MinRating:  ctx.QueryInt("minRating", 0),
		MaxRating:  ctx.QueryInt("maxRating", 0),
		SortBy:     ctx.Query("sortBy", "createdAt"),
		Order:      util.ReadSortOrder(ctx),
		Page:       util.ReadPageRequest(ctx, constant.DEFAULT_PAGE_LIMIT),
	}
}

func (controller BrewController) ListMyBrews(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	filter := readBrewFilter(ctx)
	filter.UserId = &userId

	if coffeeParam := ctx.Query("coffeeId"); coffeeParam != "" {
		coffeeId, err := uuid.Parse(coffeeParam)
		if err != nil {
			return sendError(ctx, controller.Log, &model.ValidationError{
				Code:    constant.ERR_VALIDATION_CODE,
				Message: "Invalid id",
				Param:   "coffeeId",
			})
		}
		filter.CoffeeId = &coffeeId
	}

	response, err := controller.BrewUsecase.ListBrews(ctx.UserContext(), filter)
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller BrewController) ListPublicBrews(ctx *fiber.Ctx) error {
	filter := readBrewFilter(ctx)
	filter.PublicOnly = true

	response, err := controller.BrewUsecase.ListBrews(ctx.UserContext(), filter)
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller BrewController) ListCoffeePublicBrews(ctx *fiber.Ctx) error {
	coffeeId, err := parseIdParam(ctx, "coffeeId")
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	response, err := controller.BrewUsecase.ListCoffeePublicBrews(ctx.UserContext(), coffeeId, readBrewFilter(ctx))
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller BrewController) GetBrew(ctx *fiber.Ctx) error {
	brewId, err := parseIdParam(ctx, "id")
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	response, err := controller.BrewUsecase.GetBrew(ctx.UserContext(), brewId, currentUserId(ctx))
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller BrewController) CreateBrew(ctx *fiber.Ctx) error {
	var payload model.BrewCreateRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, errInvalidRequestBody)
	}

	response, err := controller.BrewUsecase.CreateBrew(ctx.UserContext(), currentUserId(ctx), payload)
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseCreated(ctx, response)
}

func (controller BrewController) UpdateBrew(ctx *fiber.Ctx) error {
	brewId, err := parseIdParam(ctx, "id")
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	var payload model.BrewUpdateRequest
	err = util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, errInvalidRequestBody)
	}

	response, err := controller.BrewUsecase.UpdateBrew(ctx.UserContext(), brewId, currentUserId(ctx), payload)
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller BrewController) DeleteBrew(ctx *fiber.Ctx) error {
	brewId, err := parseIdParam(ctx, "id")
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	response, err := controller.BrewUsecase.DeleteBrew(ctx.UserContext(), brewId, currentUserId(ctx))
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller BrewController) ToggleLike(ctx *fiber.Ctx) error {
	brewId, err := parseIdParam(ctx, "id")
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	response, err := controller.BrewUsecase.ToggleLike(ctx.UserContext(), brewId, currentUserId(ctx))
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller BrewController) GetBrewStats(ctx *fiber.Ctx) error {
	response, err := controller.BrewUsecase.GetBrewStats(ctx.UserContext(), currentUserId(ctx))
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}
