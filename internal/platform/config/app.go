package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	AuthModeJWT = "jwt"
	AuthModeDev = "dev"
)

// AppConfig holds process-level settings for the API server.
type AppConfig struct {
	Port string

	StorageBackend string
	DatabaseURL    string
	DBMaxConns     int32

	AuthMode   string
	DevSubject string

	LogLevel  string
	LogFormat string

	// SeedVocabulary appends the built-in exercise list at startup.
	SeedVocabulary bool

	IdempotencyTTL time.Duration
}

func LoadAppConfigFromEnv() (AppConfig, error) {
	cfg := AppConfig{
		Port:           getenv("PORT", "8080"),
		StorageBackend: strings.ToLower(getenv("STORAGE_BACKEND", StorageMemory)),
		DatabaseURL:    getenv("DATABASE_URL", ""),
		AuthMode:       strings.ToLower(getenv("AUTH_MODE", AuthModeJWT)),
		DevSubject:     getenv("DEV_SUBJECT", ""),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogFormat:      strings.ToLower(getenv("LOG_FORMAT", "json")),
		IdempotencyTTL: 24 * time.Hour,
	}

	switch cfg.StorageBackend {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return AppConfig{}, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	default:
		return AppConfig{}, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageMemory, StoragePostgres, cfg.StorageBackend)
	}

	switch cfg.AuthMode {
	case AuthModeJWT, AuthModeDev:
	default:
		return AppConfig{}, fmt.Errorf("AUTH_MODE must be %q or %q, got %q", AuthModeJWT, AuthModeDev, cfg.AuthMode)
	}

	if v := getenv("DB_MAX_CONNS", ""); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n <= 0 {
			return AppConfig{}, fmt.Errorf("DB_MAX_CONNS must be a positive integer, got %q", v)
		}
		cfg.DBMaxConns = int32(n)
	}

	seed, err := strconv.ParseBool(getenv("SEED_VOCABULARY", "true"))
	if err != nil {
		return AppConfig{}, fmt.Errorf("SEED_VOCABULARY must be a boolean: %w", err)
	}
	cfg.SeedVocabulary = seed

	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", cfg.IdempotencyTTL); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func durationEnv(k string, def time.Duration) (time.Duration, error) {
	v := getenv(k, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration (e.g. 30s): %w", k, err)
	}
	return d, nil
}
