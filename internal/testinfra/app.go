//go:build integration

package testinfra

import (
	"context"
	"sync"
	"testing"

	"github.com/ferdian3456/brewlog/internal/config"
	"github.com/ferdian3456/brewlog/internal/media"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const JWTSecret = "test-secret-key-for-jwt-token-generation"

type App struct {
	Fiber   *fiber.App
	DB      *pgxpool.Pool
	Cache   *redis.Client
	Storage media.StorageConfig
	Mailer  *RecordingMailer
}

// SentMail is a message captured by RecordingMailer.
type SentMail struct {
	To      string
	Subject string
	Body    string
}

type RecordingMailer struct {
	mu   sync.Mutex
	Sent []SentMail
}

func (mailer *RecordingMailer) Send(receiverEmail string, subject string, body string) error {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	mailer.Sent = append(mailer.Sent, SentMail{To: receiverEmail, Subject: subject, Body: body})
	return nil
}

// Last returns the most recent message, or false when nothing was sent.
func (mailer *RecordingMailer) Last() (SentMail, bool) {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if len(mailer.Sent) == 0 {
		return SentMail{}, false
	}
	return mailer.Sent[len(mailer.Sent)-1], true
}

// Connect opens the pool and the redis client for an already migrated
// database.
func Connect(ctx context.Context, t *testing.T, infra *Infra) (*pgxpool.Pool, *redis.Client) {
	t.Helper()

	dbPool, err := pgxpool.New(ctx, infra.PgURL)
	if err != nil {
		t.Fatalf("failed to connect to test db: %v", err)
	}
	t.Cleanup(dbPool.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: infra.RedisURL})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		t.Fatalf("failed to connect to test redis: %v", err)
	}
	t.Cleanup(func() { _ = redisClient.Close() })

	return dbPool, redisClient
}

// NewConfig returns the koanf settings used by the test application.
func NewConfig(t *testing.T, infra *Infra, uploadsDir string) *koanf.Koanf {
	t.Helper()

	testConfig := koanf.New(".")
	values := map[string]any{
		"POSTGRES_URL":       infra.PgURL,
		"REDIS_URL":          infra.RedisURL,
		"JWT_SECRET_KEY":     JWTSecret,
		"STORAGE_DRIVER":     config.StorageDriverLocal,
		"STORAGE_LOCAL_DIR":  uploadsDir,
		"STORAGE_PUBLIC_URL": "/uploads",
		"IMAGE_ENGINE":       config.ImageEngineImaging,
		"IMAGE_WORKERS":      2,
		"APP_PUBLIC_URL":     "http://localhost:3000",
		"ENVIRONMENT":        "test",
	}
	for key, value := range values {
		if err := testConfig.Set(key, value); err != nil {
			t.Fatalf("failed to set %s: %v", key, err)
		}
	}

	return testConfig
}

// SetupTestApp migrates the database and wires the full application with the
// local store rooted in a temporary directory and the pure Go image engine.
func SetupTestApp(t *testing.T, infra *Infra) *App {
	t.Helper()

	ctx := context.Background()
	log := zap.NewNop()

	if err := config.MigrateUp(infra.PgURL, log); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	dbPool, redisClient := Connect(ctx, t, infra)
	koanf := NewConfig(t, infra, t.TempDir())
	storage := config.LoadStorageConfig(koanf)

	mailer := &RecordingMailer{}
	app := config.NewFiber(log)
	err := config.Server(&config.ServerConfig{
		Router:   app,
		DB:       dbPool,
		DBCache:  redisClient,
		Log:      log,
		Config:   koanf,
		Storage:  storage,
		Registry: prometheus.NewRegistry(),
		Mailer:   mailer,
	})
	if err != nil {
		t.Fatalf("failed to wire server: %v", err)
	}

	return &App{Fiber: app, DB: dbPool, Cache: redisClient, Storage: storage, Mailer: mailer}
}
