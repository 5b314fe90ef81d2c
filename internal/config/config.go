package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/passcheck/passcheck-go/internal/strength"
)

const devSecret = "dev-secret-change-in-production"

type Config struct {
	Port     string
	Env      string
	LogLevel string

	IndexDriver  string
	DatabaseDSN  string
	RedisURL     string
	IndexTimeout time.Duration

	SuggestSecret          string
	MinLength              int
	SuggestPreferredLength int
	SuggestMaxAttempts     int
}

func Load() Config {
	cfg := Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		IndexDriver:  strings.ToLower(getEnv("INDEX_DRIVER", "memory")),
		DatabaseDSN:  getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/passcheck?parseTime=true"),
		RedisURL:     getEnv("REDIS_URL", "redis://127.0.0.1:6379/0"),
		IndexTimeout: getEnvDuration("INDEX_TIMEOUT", 2*time.Second),

		SuggestSecret:          getEnv("SUGGEST_SECRET", devSecret),
		MinLength:              getEnvInt("MIN_LENGTH", strength.DefaultMinLength),
		SuggestPreferredLength: getEnvInt("SUGGEST_PREFERRED_LENGTH", 16),
		SuggestMaxAttempts:     getEnvInt("SUGGEST_MAX_ATTEMPTS", 12),
	}

	if cfg.IsProduction() && cfg.SuggestSecret == devSecret {
		slog.Error("SUGGEST_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

// IsProduction reports whether ENV selects production behavior.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// RuleSet returns the scoring rules with the configured minimum length.
// An invalid MIN_LENGTH falls back to the default.
func (c Config) RuleSet() strength.RuleSet {
	rules := strength.DefaultRuleSet().WithMinLength(c.MinLength)
	if err := rules.Validate(); err != nil {
		slog.Warn("invalid MIN_LENGTH, using default", "value", c.MinLength, "default", strength.DefaultMinLength)
		return strength.DefaultRuleSet()
	}
	return rules
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		slog.Warn("ignoring non-integer environment variable", "key", key, "value", v)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		slog.Warn("ignoring invalid duration", "key", key, "value", v)
		return fallback
	}
	return d
}
