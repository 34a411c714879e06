package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the process configuration, read from the environment with
// sensible local defaults.
type Config struct {
	// Database
	DBPath string

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		DBPath:   getEnv("MONEYGEMENT_DB_PATH", "./data/moneygement.db"),
		LogLevel: getEnv("MONEYGEMENT_LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	} else {
		dir := filepath.Dir(c.DBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
				}
			}
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
