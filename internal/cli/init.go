// Package cli provides common CLI initialization: .env loading, logger
// setup, configuration, and storage wiring for the composition root.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"moneygement/internal/config"
	applog "moneygement/internal/log"
	"moneygement/internal/storage"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger initializes structured logging at the given textual level
// and sets the result as the default logger.
func SetupLogger(level string) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(level),
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitGateway opens the persistence gateway at the given path.
// Returns the gateway or exits the process on failure.
func InitGateway(logger *applog.Logger, dbPath string) *storage.Gateway {
	gw, err := storage.Open(dbPath)
	if err != nil {
		logger.Error("Failed to open database", applog.FieldError, err, applog.FieldDBPath, dbPath)
		os.Exit(1)
	}
	return gw
}
