package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	DBMaxConns  int32

	JWTSecret    string
	CookieSecure bool
	FrontendURL  string

	CurrencyConversion bool
	CurrencyCacheTTL   time.Duration

	LogLevel      slog.Level
	ReadOnly      bool
	RunMigrations bool
}

func Load() (Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBMaxConns:  int32(getEnvInt("DB_MAX_CONNS", 10)),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		CookieSecure: getEnvBool("COOKIE_SECURE", true),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:5173"),

		CurrencyConversion: getEnvBool("CURRENCY_CONVERSION", true),
		CurrencyCacheTTL:   getEnvDuration("CURRENCY_CACHE_TTL", 10*time.Minute),

		LogLevel:      parseLevel(getEnv("LOG_LEVEL", "info")),
		ReadOnly:      getEnvBool("READ_ONLY", false),
		RunMigrations: getEnvBool("RUN_MIGRATIONS", true),
	}

	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DBMaxConns < 1 {
		return cfg, fmt.Errorf("DB_MAX_CONNS must be positive, got %d", cfg.DBMaxConns)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
