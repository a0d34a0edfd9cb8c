package http

import (
	"github.com/ferdian3456/brewlog/internal/constant"
	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/ferdian3456/brewlog/internal/usecase"
	"github.com/ferdian3456/brewlog/internal/util"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CoffeeController struct {
	CoffeeUsecase *usecase.CoffeeUsecase
	Log           *zap.Logger
}

func NewCoffeeController(coffeeUsecase *usecase.CoffeeUsecase, zap *zap.Logger) *CoffeeController {
	return &CoffeeController{
		CoffeeUsecase: coffeeUsecase,
		Log:           zap,
	}
}

func (controller CoffeeController) ListCoffees(ctx *fiber.Ctx) error {
	filter := model.CoffeeListFilter{
		UserId:   currentUserId(ctx),
		OnlyMine: ctx.QueryBool("onlyMine", false),
		Search:   ctx.Query("search"),
		Roaster:  ctx.Query("roaster"),
		Origin:   ctx.Query("origin"),
		SortBy:   ctx.Query("sortBy", "createdAt"),
		Order:    util.ReadSortOrder(ctx),
		Page:     util.ReadPageRequest(ctx, constant.DEFAULT_PAGE_LIMIT),
	}

	response, err := controller.CoffeeUsecase.ListCoffees(ctx.UserContext(), filter)
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller CoffeeController) GetCoffee(ctx *fiber.Ctx) error {
	coffeeId, err := parseIdParam(ctx, "id")
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	response, err := controller.CoffeeUsecase.GetCoffee(ctx.UserContext(), coffeeId, currentUserId(ctx))
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller CoffeeController) CreateCoffee(ctx *fiber.Ctx) error {
	var payload model.CoffeeCreateRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, errInvalidRequestBody)
	}

	response, err := controller.CoffeeUsecase.CreateCoffee(ctx.UserContext(), currentUserId(ctx), payload)
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseCreated(ctx, response)
}

func (controller CoffeeController) UpdateCoffee(ctx *fiber.Ctx) error {
	coffeeId, err := parseIdParam(ctx, "id")
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	var payload model.CoffeeUpdateRequest
	err = util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, errInvalidRequestBody)
	}

	response, err := controller.CoffeeUsecase.UpdateCoffee(ctx.UserContext(), coffeeId, currentUserId(ctx), payload)
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller CoffeeController) DeleteCoffee(ctx *fiber.Ctx) error {
	coffeeId, err := parseIdParam(ctx, "id")
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	response, err := controller.CoffeeUsecase.DeleteCoffee(ctx.UserContext(), coffeeId, currentUserId(ctx))
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller CoffeeController) GetPopularCoffees(ctx *fiber.Ctx) error {
	response, err := controller.CoffeeUsecase.GetPopularCoffees(ctx.UserContext(), ctx.QueryInt("limit", usecase.DefaultPopularLimit))
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller CoffeeController) Autocomplete(ctx *fiber.Ctx) error {
	response, err := controller.CoffeeUsecase.Autocomplete(ctx.UserContext(), currentUserId(ctx), ctx.Query("q"), ctx.Query("field", "all"))
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller CoffeeController) GetCoffeeStats(ctx *fiber.Ctx) error {
	response, err := controller.CoffeeUsecase.GetCoffeeStats(ctx.UserContext(), currentUserId(ctx))
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}
