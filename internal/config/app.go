package config

import (
	http "github.com/ferdian3456/brewlog/internal/delivery/http"
	"github.com/ferdian3456/brewlog/internal/delivery/http/middleware"
	"github.com/ferdian3456/brewlog/internal/delivery/http/route"
	"github.com/ferdian3456/brewlog/internal/media"
	"github.com/ferdian3456/brewlog/internal/repository"
	"github.com/ferdian3456/brewlog/internal/usecase"
	"github.com/ferdian3456/brewlog/internal/util"
	"github.com/minio/minio-go/v7"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type ServerConfig struct {
	Router   *fiber.App
	DB       *pgxpool.Pool
	DBCache  *redis.Client
	Log      *zap.Logger
	Config   *koanf.Koanf
	MinIO    *minio.Client
	Storage  media.StorageConfig
	Registry *prometheus.Registry
	// Mailer overrides the SMTP mailer built from SMTP_* settings.
	Mailer usecase.Mailer
}

func newMailer(config *koanf.Koanf) util.SMTPMailer {
	return util.SMTPMailer{
		Host:           config.String("SMTP_HOST"),
		Port:           config.Int("SMTP_PORT"),
		SenderName:     config.String("SENDER_NAME"),
		SenderEmail:    config.String("SENDER_EMAIL"),
		SenderPassword: config.String("SENDER_PASSWORD"),
	}
}

// Server wires repositories, usecases and controllers onto the router.
func Server(config *ServerConfig) error {
	pipeline, err := NewMediaPipeline(config.Storage, config.MinIO, config.Registry, config.Log)
	if err != nil {
		return err
	}

	prometheusMiddleware, err := middleware.NewPrometheusMiddleware(config.Registry)
	if err != nil {
		return err
	}
	config.Router.Use(prometheusMiddleware.Handler())

	userRepository := repository.NewUserRepository(config.Log, config.DB, config.DBCache)
	coffeeRepository := repository.NewCoffeeRepository(config.Log, config.DB, config.DBCache)
	brewRepository := repository.NewBrewRepository(config.Log, config.DB)
	friendRepository := repository.NewFriendRepository(config.Log, config.DB)
	imageRepository := repository.NewImageRepository(config.Log, config.DB)

	imageUsecase := usecase.NewImageUsecase(imageRepository, pipeline, config.Log)
	mailer := config.Mailer
	if mailer == nil {
		mailer = newMailer(config.Config)
	}

	userUsecase := usecase.NewUserUsecase(userRepository, imageUsecase, mailer, config.Log, config.Config)
	coffeeUsecase := usecase.NewCoffeeUsecase(coffeeRepository, imageUsecase, config.Log)
	brewUsecase := usecase.NewBrewUsecase(brewRepository, coffeeRepository, imageUsecase, config.Log)
	friendUsecase := usecase.NewFriendUsecase(friendRepository, userRepository, brewRepository, config.Log)

	authMiddleware := middleware.NewAuthMiddleware(config.Log, config.Config, userUsecase)

	routeConfig := route.RouteConfig{
		App:              config.Router,
		Log:              config.Log,
		AuthMiddleware:   authMiddleware,
		UserController:   http.NewUserController(userUsecase, imageUsecase, config.Log, config.Config),
		CoffeeController: http.NewCoffeeController(coffeeUsecase, config.Log),
		BrewController:   http.NewBrewController(brewUsecase, config.Log),
		FriendController: http.NewFriendController(friendUsecase, config.Log),
		ImageController:  http.NewImageController(imageUsecase, config.Log),
		HealthController: http.NewHealthController(userUsecase, config.Log),
		MetricsHandler:   adaptor.HTTPHandler(promhttp.HandlerFor(config.Registry, promhttp.HandlerOpts{Registry: config.Registry})),
	}

	if config.Storage.Driver == StorageDriverLocal {
		routeConfig.UploadsDir = config.Storage.LocalDir
	}

	routeConfig.SetupRoute()

	return nil
}
