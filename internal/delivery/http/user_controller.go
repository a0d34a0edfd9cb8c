package http

import (
	"time"

	"github.com/ferdian3456/brewlog/internal/constant"
	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/ferdian3456/brewlog/internal/usecase"
	"github.com/ferdian3456/brewlog/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

type UserController struct {
	UserUsecase  *usecase.UserUsecase
	ImageUsecase *usecase.ImageUsecase
	Log          *zap.Logger
	Config       *koanf.Koanf
}

func NewUserController(userUsecase *usecase.UserUsecase, imageUsecase *usecase.ImageUsecase, zap *zap.Logger, koanf *koanf.Koanf) *UserController {
	return &UserController{
		UserUsecase:  userUsecase,
		ImageUsecase: imageUsecase,
		Log:          zap,
		Config:       koanf,
	}
}

// setTokenCookie mirrors the access token into an http-only cookie for
// browser clients.
func (controller UserController) setTokenCookie(ctx *fiber.Ctx, token model.TokenResponse) {
	ctx.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token.AccessToken,
		Expires:  time.Now().Add(time.Duration(token.AccessTokenExpiresIn) * time.Second),
		HTTPOnly: true,
		Secure:   controller.Config.String("ENVIRONMENT") == "production",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (controller UserController) Register(ctx *fiber.Ctx) error {
	var payload model.UserCreateRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, errInvalidRequestBody)
	}

	response, err := controller.UserUsecase.Register(ctx.UserContext(), payload)
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	controller.setTokenCookie(ctx, response.Token)

	return util.SendSuccessResponseCreated(ctx, response)
}

func (controller UserController) Login(ctx *fiber.Ctx) error {
	var payload model.UserLoginRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, errInvalidRequestBody)
	}

	response, err := controller.UserUsecase.Login(ctx.UserContext(), payload)
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	controller.setTokenCookie(ctx, response.Token)

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller UserController) Logout(ctx *fiber.Ctx) error {
	err := controller.UserUsecase.Logout(ctx.UserContext(), currentUserId(ctx))
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	ctx.ClearCookie("token")

	return util.SendSuccessResponseWithData(ctx, model.MessageResponse{Message: "Logged out successfully"})
}

func (controller UserController) GetUserInfo(ctx *fiber.Ctx) error {
	response, err := controller.UserUsecase.GetUserInfo(ctx.UserContext(), currentUserId(ctx))
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller UserController) AuthStatus(ctx *fiber.Ctx) error {
	user, err := controller.UserUsecase.GetUserInfo(ctx.UserContext(), currentUserId(ctx))
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, model.AuthStatusResponse{Authenticated: true, User: user})
}

func (controller UserController) ForgotPassword(ctx *fiber.Ctx) error {
	var payload model.ForgotPasswordRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, errInvalidRequestBody)
	}

	response, err := controller.UserUsecase.ForgotPassword(ctx.UserContext(), payload)
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller UserController) VerifyResetToken(ctx *fiber.Ctx) error {
	response, err := controller.UserUsecase.VerifyResetToken(ctx.UserContext(), ctx.Params("token"))
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller UserController) ResetPassword(ctx *fiber.Ctx) error {
	var payload model.ResetPasswordRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, errInvalidRequestBody)
	}

	response, err := controller.UserUsecase.ResetPassword(ctx.UserContext(), payload)
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller UserController) UpdateProfile(ctx *fiber.Ctx) error {
	var payload model.UserProfileUpdateRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, errInvalidRequestBody)
	}

	response, err := controller.UserUsecase.UpdateProfile(ctx.UserContext(), currentUserId(ctx), payload)
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller UserController) ChangePassword(ctx *fiber.Ctx) error {
	var payload model.UserPasswordChangeRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, errInvalidRequestBody)
	}

	response, err := controller.UserUsecase.ChangePassword(ctx.UserContext(), currentUserId(ctx), payload)
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller UserController) DeleteAccount(ctx *fiber.Ctx) error {
	var payload model.DeleteAccountRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, errInvalidRequestBody)
	}

	response, err := controller.UserUsecase.DeleteAccount(ctx.UserContext(), currentUserId(ctx), payload)
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	ctx.ClearCookie("token")

	return util.SendSuccessResponseWithData(ctx, response)
}

// UploadAvatar takes a single file from the "avatar" field; extra files are
// ignored.
func (controller UserController) UploadAvatar(ctx *fiber.Ctx) error {
	uploads, err := readUploads(ctx, "avatar")
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	if len(uploads) == 0 {
		return util.SendErrorResponse(ctx, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "No image provided",
			Param:   "avatar",
		})
	}

	response, err := controller.ImageUsecase.UploadAvatar(ctx.UserContext(), currentUserId(ctx), uploads[0])
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller UserController) DeleteAvatar(ctx *fiber.Ctx) error {
	response, err := controller.ImageUsecase.DeleteAvatar(ctx.UserContext(), currentUserId(ctx))
	if err != nil {
		return sendError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}
