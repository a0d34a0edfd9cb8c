package middleware

import (
	"context"

	tracelog "github.com/ferdian3456/brewlog/internal/middleware"
	"github.com/ferdian3456/brewlog/internal/util"
	"github.com/google/uuid"

	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const TokenCookieName = "token"

// AccessTokenChecker confirms that a token is the live session of its user.
type AccessTokenChecker interface {
	GetAccessToken(ctx context.Context, userId uuid.UUID, accessToken string) error
}

type AuthMiddleware struct {
	Log          *zap.Logger
	Config       *koanf.Koanf
	TokenChecker AccessTokenChecker
}

func NewAuthMiddleware(zap *zap.Logger, koanf *koanf.Koanf, tokenChecker AccessTokenChecker) *AuthMiddleware {
	return &AuthMiddleware{
		Log:          zap,
		Config:       koanf,
		TokenChecker: tokenChecker,
	}
}

// authorization returns the bearer header, falling back to the token cookie.
func authorization(ctx *fiber.Ctx) string {
	header := ctx.Get(fiber.HeaderAuthorization)
	if header != "" {
		return header
	}

	if cookie := ctx.Cookies(TokenCookieName); cookie != "" {
		return util.BearerPrefix + cookie
	}

	return ""
}

func (middleware *AuthMiddleware) authenticate(ctx *fiber.Ctx) (uuid.UUID, error) {
	tokenString, userId, err := util.ValidateAccessToken(authorization(ctx), middleware.Log, middleware.Config.String("JWT_SECRET_KEY"))
	if err != nil {
		return uuid.Nil, err
	}

	err = middleware.TokenChecker.GetAccessToken(ctx.UserContext(), userId, tokenString)
	if err != nil {
		return uuid.Nil, err
	}

	return userId, nil
}

func (middleware *AuthMiddleware) ProtectedRoute() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userId, err := middleware.authenticate(ctx)
		if err != nil {
			return util.SendError(ctx, middleware.requestLogger(ctx), err)
		}

		ctx.Locals("userId", userId)

		return ctx.Next()
	}
}

// OptionalAuth sets userId when a valid token is present and lets anonymous
// requests through otherwise.
func (middleware *AuthMiddleware) OptionalAuth() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if authorization(ctx) == "" {
			return ctx.Next()
		}

		userId, err := middleware.authenticate(ctx)
		if err != nil {
			middleware.requestLogger(ctx).Debug("ignoring invalid optional token", zap.Error(err))
			return ctx.Next()
		}

		ctx.Locals("userId", userId)

		return ctx.Next()
	}
}

func (middleware *AuthMiddleware) requestLogger(ctx *fiber.Ctx) *zap.Logger {
	return tracelog.GetLoggerFromContext(ctx, middleware.Log)
}
