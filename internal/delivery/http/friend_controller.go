package http

import (
	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/ferdian3456/brewlog/internal/usecase"
	"github.com/ferdian3456/brewlog/internal/util"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type FriendController struct {
	FriendUsecase *usecase.FriendUsecase
	Log           *zap.Logger
}

func NewFriendController(friendUsecase *usecase.FriendUsecase, zap *zap.Logger) *FriendController {
	return &FriendController{
		FriendUsecase: friendUsecase,
		Log:           zap,
	}
}

func (controller FriendController) SearchUsers(ctx *fiber.Ctx) error {
	response, err := controller.FriendUsecase.SearchUsers(ctx.UserContext(), currentUserId(ctx), ctx.Query("q"))
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller FriendController) ListFriends(ctx *fiber.Ctx) error {
	response, err := controller.FriendUsecase.ListFriends(ctx.UserContext(), currentUserId(ctx), ctx.Query("status", "all"))
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller FriendController) SendRequest(ctx *fiber.Ctx) error {
	var payload model.FriendRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, errInvalidRequestBody)
	}

	response, created, err := controller.FriendUsecase.SendRequest(ctx.UserContext(), currentUserId(ctx), payload)
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	if created {
		return util.SendSuccessResponseCreated(ctx, response)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller FriendController) AcceptRequest(ctx *fiber.Ctx) error {
	friendshipId, err := parseIdParam(ctx, "friendshipId")
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	response, err := controller.FriendUsecase.AcceptRequest(ctx.UserContext(), currentUserId(ctx), friendshipId)
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller FriendController) RejectRequest(ctx *fiber.Ctx) error {
	friendshipId, err := parseIdParam(ctx, "friendshipId")
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	response, err := controller.FriendUsecase.RejectRequest(ctx.UserContext(), currentUserId(ctx), friendshipId)
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller FriendController) RemoveFriendship(ctx *fiber.Ctx) error {
	friendshipId, err := parseIdParam(ctx, "friendshipId")
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	response, err := controller.FriendUsecase.RemoveFriendship(ctx.UserContext(), currentUserId(ctx), friendshipId)
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller FriendController) GetFriendBrews(ctx *fiber.Ctx) error {
	friendId, err := parseIdParam(ctx, "friendId")
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	page := util.ReadPageRequest(ctx, usecase.FriendBrewsLimit)

	response, err := controller.FriendUsecase.GetFriendBrews(ctx.UserContext(), currentUserId(ctx), friendId, page)
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller FriendController) GetFriendProfile(ctx *fiber.Ctx) error {
	friendId, err := parseIdParam(ctx, "friendId")
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	response, err := controller.FriendUsecase.GetFriendProfile(ctx.UserContext(), currentUserId(ctx), friendId)
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}
