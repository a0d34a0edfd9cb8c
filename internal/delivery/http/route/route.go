package route

import (
	"github.com/ferdian3456/brewlog/internal/delivery/http"
	"github.com/ferdian3456/brewlog/internal/delivery/http/middleware"
	"github.com/ferdian3456/brewlog/internal/media"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RouteConfig struct {
	App              *fiber.App
	Log              *zap.Logger
	AuthMiddleware   *middleware.AuthMiddleware
	UserController   *http.UserController
	CoffeeController *http.CoffeeController
	BrewController   *http.BrewController
	FriendController *http.FriendController
	ImageController  *http.ImageController
	HealthController *http.HealthController
	MetricsHandler   fiber.Handler
	// UploadsDir is served under /uploads when set.
	UploadsDir string
}

func (c *RouteConfig) SetupRoute() {
	if c.MetricsHandler != nil {
		c.App.Get("/metrics", c.MetricsHandler)
	}

	if c.UploadsDir != "" {
		c.App.Static("/uploads", c.UploadsDir, fiber.Static{
			ByteRange: true,
			MaxAge:    31536000,
		})
	}

	api := c.App.Group("/api")
	api.Get("/health", c.HealthController.Health)

	protected := c.AuthMiddleware.ProtectedRoute()
	optional := c.AuthMiddleware.OptionalAuth()
	authLimiter := middleware.SetupAuthRateLimiter(c.Log)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", authLimiter, c.UserController.Register)
	authGroup.Post("/login", authLimiter, c.UserController.Login)
	authGroup.Post("/forgot-password", authLimiter, c.UserController.ForgotPassword)
	authGroup.Get("/verify-reset-token/:token", c.UserController.VerifyResetToken)
	authGroup.Post("/reset-password", authLimiter, c.UserController.ResetPassword)
	authGroup.Post("/logout", protected, c.UserController.Logout)
	authGroup.Get("/me", protected, c.UserController.GetUserInfo)
	authGroup.Get("/status", protected, c.UserController.AuthStatus)
	authGroup.Put("/profile", protected, c.UserController.UpdateProfile)
	authGroup.Put("/password", protected, c.UserController.ChangePassword)
	authGroup.Post("/avatar", protected, c.UserController.UploadAvatar)
	authGroup.Delete("/avatar", protected, c.UserController.DeleteAvatar)
	authGroup.Delete("/account", protected, c.UserController.DeleteAccount)

	coffeeGroup := api.Group("/coffees", protected)
	coffeeGroup.Get("/popular/top", c.CoffeeController.GetPopularCoffees)
	coffeeGroup.Get("/search/autocomplete", c.CoffeeController.Autocomplete)
	coffeeGroup.Get("/stats/summary", c.CoffeeController.GetCoffeeStats)
	coffeeGroup.Get("/", c.CoffeeController.ListCoffees)
	coffeeGroup.Post("/", c.CoffeeController.CreateCoffee)
	coffeeGroup.Get("/:id", c.CoffeeController.GetCoffee)
	coffeeGroup.Put("/:id", c.CoffeeController.UpdateCoffee)
	coffeeGroup.Delete("/:id", c.CoffeeController.DeleteCoffee)
	coffeeGroup.Post("/:id/images", c.ImageController.Upload(media.CategoryCoffees))
	coffeeGroup.Delete("/:id/images/:imageId", c.ImageController.Delete(media.CategoryCoffees))
	coffeeGroup.Put("/:id/images/:imageId/primary", c.ImageController.SetPrimary(media.CategoryCoffees))

	brewGroup := api.Group("/brews")
	brewGroup.Get("/public", optional, c.BrewController.ListPublicBrews)
	brewGroup.Get("/coffee/:coffeeId/public", optional, c.BrewController.ListCoffeePublicBrews)
	brewGroup.Get("/my-brews", protected, c.BrewController.ListMyBrews)
	brewGroup.Get("/stats/summary", protected, c.BrewController.GetBrewStats)
	brewGroup.Post("/", protected, c.BrewController.CreateBrew)
	brewGroup.Get("/:id", optional, c.BrewController.GetBrew)
	brewGroup.Put("/:id", protected, c.BrewController.UpdateBrew)
	brewGroup.Delete("/:id", protected, c.BrewController.DeleteBrew)
	brewGroup.Post("/:id/like", protected, c.BrewController.ToggleLike)
	brewGroup.Post("/:id/images", protected, c.ImageController.Upload(media.CategoryBrews))
	brewGroup.Delete("/:id/images/:imageId", protected, c.ImageController.Delete(media.CategoryBrews))
	brewGroup.Put("/:id/images/:imageId/primary", protected, c.ImageController.SetPrimary(media.CategoryBrews))

	friendGroup := api.Group("/friends", protected)
	friendGroup.Get("/search", c.FriendController.SearchUsers)
	friendGroup.Get("/", c.FriendController.ListFriends)
	friendGroup.Post("/request", c.FriendController.SendRequest)
	friendGroup.Put("/accept/:friendshipId", c.FriendController.AcceptRequest)
	friendGroup.Put("/reject/:friendshipId", c.FriendController.RejectRequest)
	friendGroup.Delete("/:friendshipId", c.FriendController.RemoveFriendship)
	friendGroup.Get("/:friendId/brews", c.FriendController.GetFriendBrews)
	friendGroup.Get("/:friendId/profile", c.FriendController.GetFriendProfile)
}
