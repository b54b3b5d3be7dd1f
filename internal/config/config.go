package config

import (
	"os"
	"path/filepath"
)

type Config struct {
	DatabaseDSN string
	DataDir     string
	FontsDir    string
	Env         string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.DataDir = getEnv("DATA_DIR", "data")
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", filepath.Join(cfg.DataDir, "invoices.db"))
	cfg.FontsDir = getEnv("FONTS_DIR", "fonts")
	cfg.Env = getEnv("APP_ENV", "development")
	return cfg
}

// BackupDir is where timestamped database copies land.
func (c Config) BackupDir() string { return filepath.Join(c.DataDir, "backups") }

// ExportDir is the default target for bulk PDF regeneration.
func (c Config) ExportDir() string { return filepath.Join(c.DataDir, "pdf_exports") }

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
