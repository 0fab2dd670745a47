package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Storage collaborator (realtime tree database, REST)
	DatabaseURL    string
	DatabaseSecret string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Cache (customer listing path)
	CacheTTL time.Duration

	// Observability
	OTLPEndpoint string

	// Identity
	JWTSecret    string
	AuthDisabled bool // AUTH_DISABLED=true trusts X-User-Id/X-User-Name headers

	// Complaint validation
	TitleMinLen int

	// Notification engine; zero disables the background reconcile loop.
	ReconcileInterval time.Duration
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL:    getEnv("DATABASE_URL", "http://localhost:9000"),
		DatabaseSecret: getEnv("DATABASE_SECRET", ""),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		CacheTTL: getEnvDuration("CACHE_TTL", 2*time.Minute),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		JWTSecret:    getEnv("JWT_SECRET", "backoffice-default-dev-secret-change-me"),
		AuthDisabled: getEnv("AUTH_DISABLED", "false") == "true",

		TitleMinLen: getEnvInt("COMPLAINT_TITLE_MIN_LEN", 5),

		ReconcileInterval: getEnvDuration("RECONCILE_INTERVAL", 0),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
