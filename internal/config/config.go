// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"chads-social/internal/identity"
	"chads-social/internal/service"
	"chads-social/internal/util"
	"chads-social/pkg/db"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string
	DB         db.Config
	Auth       identity.Config
	Log        util.LogOptions
	Messages   service.ConversationOptions
	RateLimit  RateLimitConfig
	Metrics    bool // expose /metrics
}

// RateLimitConfig bounds requests per authenticated user.
type RateLimitConfig struct {
	RPS   float64 // 0 disables limiting
	Burst int
}

// LoadConfig loads configuration from environment variables. A .env file in
// the working directory is read first when present; real environment
// variables take precedence over it.
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	var errs []error
	l := loader{errs: &errs}

	cfg := &AppConfig{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DB: db.Config{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            l.int("DB_PORT", 5432),
			User:            getEnv("DB_USER", "user"),
			Password:        getEnv("DB_PASSWORD", "password"),
			DBName:          getEnv("DB_NAME", "chadsdb"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    l.int("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    l.int("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: l.duration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Auth: identity.Config{
			Mode:      getEnv("AUTH_MODE", identity.ModeTelegram),
			BotToken:  os.Getenv("BOT_TOKEN"),
			JWTSecret: os.Getenv("JWT_SECRET"),
			JWTIssuer: getEnv("JWT_ISSUER", "chads-social"),
			MaxAge:    l.duration("AUTH_MAX_AGE", 24*time.Hour),
			TokenTTL:  l.duration("JWT_TTL", time.Hour),
		},
		Log: util.LogOptions{
			Level:      getEnv("LOG_LEVEL", "info"),
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  l.int("LOG_MAX_SIZE_MB", 100),
			MaxBackups: l.int("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: l.int("LOG_MAX_AGE_DAYS", 28),
		},
		Messages: service.ConversationOptions{
			MaxBodyLength: l.int("MESSAGE_MAX_LENGTH", service.DefaultMaxBodyLength),
			HistoryLimit:  l.int("HISTORY_LIMIT", service.MaxHistoryLimit),
		},
		RateLimit: RateLimitConfig{
			RPS:   l.float("RATE_LIMIT_RPS", 10),
			Burst: l.int("RATE_LIMIT_BURST", 20),
		},
		Metrics: l.bool("METRICS_ENABLED", true),
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if h := cfg.Messages.HistoryLimit; h < service.MinHistoryLimit || h > service.MaxHistoryLimit {
		return nil, fmt.Errorf("invalid HISTORY_LIMIT: %d is outside [%d, %d]", h, service.MinHistoryLimit, service.MaxHistoryLimit)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// loader parses typed variables and collects every parse error.
type loader struct {
	errs *[]error
}

func (l loader) int(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*l.errs = append(*l.errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return v
}

func (l loader) float(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*l.errs = append(*l.errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return v
}

func (l loader) bool(key string, def bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*l.errs = append(*l.errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return v
}

func (l loader) duration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*l.errs = append(*l.errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return v
}
