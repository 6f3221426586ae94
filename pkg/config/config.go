package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration
type Config struct {
	Environment                string
	ServerPort                 int
	DatabaseURL                string
	RedisURL                   string
	LogLevel                   string
	CORSAllowedOrigins         []string
	DefaultPageLimit           int
	MaxPageLimit               int
	JWTSecret                  string
	TokenTTLMinutes            int
	RateLimitPerMinute         int
	DashboardCacheTTLSeconds   int
	LoyerWorkerIntervalMinutes int
	ConsistencyIntervalMinutes int
	JourEcheance               int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	defaultLimit, err := strconv.Atoi(getEnv("DEFAULT_PAGE_LIMIT", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_PAGE_LIMIT: %w", err)
	}

	maxLimit, err := strconv.Atoi(getEnv("MAX_PAGE_LIMIT", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_PAGE_LIMIT: %w", err)
	}

	tokenTTL, err := strconv.Atoi(getEnv("TOKEN_TTL_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL_MINUTES: %w", err)
	}

	rateLimit, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}

	cacheTTL, err := strconv.Atoi(getEnv("DASHBOARD_CACHE_TTL_SECONDS", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid DASHBOARD_CACHE_TTL_SECONDS: %w", err)
	}

	loyerInterval, err := strconv.Atoi(getEnv("LOYER_WORKER_INTERVAL_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOYER_WORKER_INTERVAL_MINUTES: %w", err)
	}

	consistencyInterval, err := strconv.Atoi(getEnv("CONSISTENCY_INTERVAL_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid CONSISTENCY_INTERVAL_MINUTES: %w", err)
	}

	jourEcheance, err := strconv.Atoi(getEnv("JOUR_ECHEANCE", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid JOUR_ECHEANCE: %w", err)
	}

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		ServerPort:  port,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: parseCSVEnv("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}),
		DefaultPageLimit:           defaultLimit,
		MaxPageLimit:               maxLimit,
		JWTSecret:                  getEnv("JWT_SECRET", ""),
		TokenTTLMinutes:            tokenTTL,
		RateLimitPerMinute:         rateLimit,
		DashboardCacheTTLSeconds:   cacheTTL,
		LoyerWorkerIntervalMinutes: loyerInterval,
		ConsistencyIntervalMinutes: consistencyInterval,
		JourEcheance:               jourEcheance,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseCSVEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
