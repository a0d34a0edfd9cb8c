package config

import (
	"fmt"

	"github.com/ferdian3456/brewlog/internal/media"
	"github.com/ferdian3456/brewlog/internal/media/vips"
	"github.com/knadh/koanf/v2"
	"github.com/minio/minio-go/v7"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	StorageDriverLocal = "local"
	StorageDriverMinIO = "minio"

	ImageEngineVips    = "vips"
	ImageEngineImaging = "imaging"

	defaultLocalDir       = "uploads"
	defaultLocalPublicURL = "/uploads"
)

func LoadStorageConfig(config *koanf.Koanf) media.StorageConfig {
	storage := media.StorageConfig{
		Driver:    config.String("STORAGE_DRIVER"),
		LocalDir:  config.String("STORAGE_LOCAL_DIR"),
		PublicURL: config.String("STORAGE_PUBLIC_URL"),
		Bucket:    config.String("MINIO_BUCKET_NAME"),
		Timeout:   config.Duration("STORAGE_TIMEOUT"),
		Workers:   config.Int("IMAGE_WORKERS"),
		Engine:    config.String("IMAGE_ENGINE"),
	}

	if storage.Driver == "" {
		storage.Driver = StorageDriverLocal
	}
	if storage.Engine == "" {
		storage.Engine = ImageEngineVips
	}
	if storage.LocalDir == "" {
		storage.LocalDir = defaultLocalDir
	}
	if storage.PublicURL == "" && storage.Driver == StorageDriverLocal {
		storage.PublicURL = defaultLocalPublicURL
	}
	if storage.Timeout <= 0 {
		storage.Timeout = media.DefaultTimeout
	}
	if storage.Workers <= 0 {
		storage.Workers = media.DefaultWorkers
	}

	return storage
}

func newProcessor(engine string) (media.Processor, error) {
	switch engine {
	case ImageEngineVips:
		return vips.NewProcessor(), nil
	case ImageEngineImaging:
		return media.NewImagingProcessor(), nil
	default:
		return nil, fmt.Errorf("unknown image engine %q", engine)
	}
}

func newStore(storage media.StorageConfig, minioClient *minio.Client) (media.Store, error) {
	switch storage.Driver {
	case StorageDriverLocal:
		return media.NewLocalStore(storage.LocalDir, storage.PublicURL), nil
	case StorageDriverMinIO:
		if minioClient == nil {
			return nil, fmt.Errorf("minio storage driver requires a minio client")
		}
		return media.NewMinIOStore(minioClient, storage.Bucket, storage.PublicURL), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", storage.Driver)
	}
}

// NewMediaPipeline assembles the image processor, the asset store and the
// pipeline metrics for the configured engine and driver.
func NewMediaPipeline(storage media.StorageConfig, minioClient *minio.Client, reg prometheus.Registerer, log *zap.Logger) (*media.Pipeline, error) {
	processor, err := newProcessor(storage.Engine)
	if err != nil {
		return nil, err
	}

	store, err := newStore(storage, minioClient)
	if err != nil {
		return nil, err
	}

	metrics, err := media.NewMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("register media metrics: %w", err)
	}

	log.Info("media pipeline configured",
		zap.String("engine", storage.Engine),
		zap.String("driver", storage.Driver),
		zap.Int("workers", storage.Workers),
		zap.Duration("timeout", storage.Timeout),
	)

	return media.NewPipeline(processor, store, log, metrics, storage.Workers, storage.Timeout), nil
}
