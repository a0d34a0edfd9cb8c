package config

import (
	"context"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const (
	defaultMaxConns = 20
	defaultMinConns = 5
)

func intOrDefault(config *koanf.Koanf, key string, fallback int) int {
	if value := config.Int(key); value > 0 {
		return value
	}
	return fallback
}

func NewPostgresqlPool(config *koanf.Koanf, log *zap.Logger) *pgxpool.Pool {
	pgxConfig, err := pgxpool.ParseConfig(config.String("POSTGRES_URL"))
	if err != nil {
		log.Fatal("failed to parse postgresql config", zap.Error(err))
	}

	pgxConfig.MaxConns = int32(intOrDefault(config, "POSTGRES_MAX_CONNS", defaultMaxConns))
	pgxConfig.MinConns = int32(intOrDefault(config, "POSTGRES_MIN_CONNS", defaultMinConns))
	pgxConfig.MaxConnLifetime = 30 * time.Minute
	pgxConfig.MaxConnIdleTime = 5 * time.Minute
	pgxConfig.HealthCheckPeriod = 1 * time.Minute
	pgxConfig.ConnConfig.Tracer = otelpgx.NewTracer()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, pgxConfig)
	if err != nil {
		log.Fatal("failed to create pgx pool", zap.Error(err))
	}

	err = pool.Ping(ctx)
	if err != nil {
		log.Fatal("failed to ping postgresql database", zap.Error(err))
	}

	log.Info("postgresql pool ready",
		zap.Int32("max_conns", pgxConfig.MaxConns),
		zap.Int32("min_conns", pgxConfig.MinConns),
	)

	return pool
}
