package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// RequiredKeys must be set for the API to start.
var RequiredKeys = []string{"GO_SERVER", "POSTGRES_URL", "REDIS_URL", "JWT_SECRET_KEY"}

// NewKoanf loads .env when present, then the process environment on top.
func NewKoanf(log *zap.Logger) *koanf.Koanf {
	k := koanf.New(".")

	err := k.Load(file.Provider(".env"), dotenv.Parser())
	if err != nil {
		log.Debug(".env file not found, using environment variables", zap.Error(err))
	}

	err = k.Load(env.Provider("", ".", nil), nil)
	if err != nil {
		log.Fatal("failed to load environment variables", zap.Error(err))
	}

	return k
}

// RequireKeys reports every listed key that is missing or blank.
func RequireKeys(k *koanf.Koanf, keys ...string) error {
	var missing []string
	for _, key := range keys {
		if strings.TrimSpace(k.String(key)) == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}
