package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration (optional; empty host disables rate limiting)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret       string
	SessionDuration time.Duration

	// External recipe generation service
	RecipeAPIURL  string
	RecipeAPIPath string

	// CORS
	AllowedOrigin string

	// Analytics policy: whether requests that fail authentication are
	// still recorded by the call-stats aggregator.
	CountUnauthenticated bool
}

// LoadConfig creates a new Config instance from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8000"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "mealmancer"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		RecipeAPIURL:  getEnv("RECIPE_API_URL", "https://recipeapi.duckdns.org"),
		RecipeAPIPath: getEnv("RECIPE_API_PATH", "/generate/?prompt="),

		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "https://mealmancer.netlify.app"),

		SessionDuration:      2 * time.Hour,
		CountUnauthenticated: true,
	}

	if db := os.Getenv("REDIS_DB"); db != "" {
		n, err := strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value %q: %w", db, err)
		}
		cfg.RedisDB = n
	}

	if v := os.Getenv("COUNT_UNAUTHENTICATED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid COUNT_UNAUTHENTICATED value %q: %w", v, err)
		}
		cfg.CountUnauthenticated = b
	}

	secret, err := loadJWTSecret()
	if err != nil {
		return nil, err
	}
	cfg.JWTSecret = secret

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadJWTSecret reads the signing secret from JWT_SECRET or, as used in
// container deployments, from the file named by JWT_SECRET_FILE.
func loadJWTSecret() (string, error) {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return secret, nil
	}

	secretFile := os.Getenv("JWT_SECRET_FILE")
	if secretFile == "" {
		return "", fmt.Errorf("JWT_SECRET or JWT_SECRET_FILE must be set")
	}

	data, err := os.ReadFile(secretFile)
	if err != nil {
		return "", fmt.Errorf("failed to read JWT secret file: %w", err)
	}

	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", fmt.Errorf("JWT secret file is empty")
	}
	return secret, nil
}
