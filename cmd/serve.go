package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ferdian3456/brewlog/internal/config"
	"github.com/ferdian3456/brewlog/internal/delivery/http/middleware"
	"github.com/ferdian3456/brewlog/internal/exception"
	tracelog "github.com/ferdian3456/brewlog/internal/middleware"
	"github.com/ferdian3456/brewlog/internal/observability"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/minio/minio-go/v7"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	zapLog "go.uber.org/zap"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	zap, level := config.NewZap()
	koanf := config.NewKoanf(zap)
	config.SetLogLevel(level, koanf.String("LOG_LEVEL"))

	if err := config.RequireKeys(koanf, config.RequiredKeys...); err != nil {
		zap.Error("invalid configuration", zapLog.Error(err))
		return err
	}

	shutdownTracer, err := observability.Init(context.Background(), config.LoadObservabilityConfig(koanf), zap)
	if err != nil {
		zap.Error("failed to initialize tracing", zapLog.Error(err))
		return err
	}

	rds := config.NewRedisClient(koanf, zap)
	postgresql := config.NewPostgresqlPool(koanf, zap)
	storage := config.LoadStorageConfig(koanf)

	var minioClient *minio.Client
	if storage.Driver == config.StorageDriverMinIO {
		minioClient = config.NewMinIO(koanf, zap)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	fiber := config.NewFiber(zap)

	// Custom recovery middleware to handle panics with JSON response
	fiber.Use(exception.Recovery(zap))
	fiber.Use(middleware.RequestID())
	fiber.Use(otelfiber.Middleware())
	fiber.Use(tracelog.TraceLoggerMiddleware(zap))
	fiber.Use(middleware.SetupCORS(koanf.String("CORS_ORIGINS")))
	fiber.Use(middleware.SetupRateLimiter(zap))

	fiber.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	err = config.Server(&config.ServerConfig{
		Router:   fiber,
		DB:       postgresql,
		DBCache:  rds,
		Log:      zap,
		Config:   koanf,
		MinIO:    minioClient,
		Storage:  storage,
		Registry: registry,
	})
	if err != nil {
		zap.Error("failed to wire server", zapLog.Error(err))
		return err
	}

	GO_SERVER_PORT := koanf.String("GO_SERVER")

	zap.Info("Server is running on: " + GO_SERVER_PORT)

	go func() {
		err := fiber.Listen(GO_SERVER_PORT)
		if err != nil {
			zap.Fatal("error starting server", zapLog.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	zap.Info("got one of stop signals")

	// Flush zap buffered log first then cancel the context for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = fiber.ShutdownWithContext(ctx)
	if err != nil {
		zap.Warn("timeout, forced kill!", zapLog.Error(err))
	}

	postgresql.Close()
	_ = rds.Close()

	if err := shutdownTracer(ctx); err != nil {
		zap.Warn("failed to flush traces", zapLog.Error(err))
	}

	zap.Info("server has shut down gracefully")
	_ = zap.Sync()

	return nil
}
