package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  Config{DBPath: "./test.db", LogLevel: "info"},
			wantErr: false,
		},
		{
			name:    "empty db path",
			config:  Config{DBPath: "", LogLevel: "info"},
			wantErr: true,
		},
		{
			name:    "invalid log level",
			config:  Config{DBPath: "./test.db", LogLevel: "verbose"},
			wantErr: true,
		},
		{
			name:    "debug level accepted",
			config:  Config{DBPath: "./test.db", LogLevel: "debug"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected ok, got %v", err)
			}
		})
	}
}

func TestConfig_ValidateCreatesDBDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	cfg := Config{DBPath: filepath.Join(dir, "app.db"), LogLevel: "info"}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("expected directory to be created: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("MONEYGEMENT_DB_PATH")
	os.Unsetenv("MONEYGEMENT_LOG_LEVEL")

	cfg := Load()
	if cfg.DBPath != "./data/moneygement.db" {
		t.Fatalf("unexpected default db path: %s", cfg.DBPath)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected default log level: %s", cfg.LogLevel)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MONEYGEMENT_DB_PATH", "/tmp/other.db")
	t.Setenv("MONEYGEMENT_LOG_LEVEL", "debug")

	cfg := Load()
	if cfg.DBPath != "/tmp/other.db" {
		t.Fatalf("unexpected db path: %s", cfg.DBPath)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
}
