package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is usable in the current
// environment. Production is stricter about credentials than development.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.JWTSecret == "" {
		errs = append(errs, "JWT secret is required")
	}
	if cfg.ServerPort == "" {
		errs = append(errs, "server port is required")
	}
	if cfg.DBHost == "" || cfg.DBPort == "" || cfg.DBName == "" {
		errs = append(errs, "database host, port and name are required")
	}
	if cfg.RecipeAPIURL == "" {
		errs = append(errs, "recipe API URL is required")
	}
	if cfg.SessionDuration <= 0 {
		errs = append(errs, "session duration must be positive")
	}

	if GetEnvironment() == Production {
		if cfg.DBPassword == "" {
			errs = append(errs, "database password is required in production")
		}
		if cfg.DBSSLMode == "disable" {
			errs = append(errs, "database SSL must not be disabled in production")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
