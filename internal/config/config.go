package config

import (
	"os"
)

// Config represents the environment-driven application configuration.
// Everything here is optional: the tool runs file-to-file by default.
type Config struct {
	Database DatabaseConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds the optional Postgres archive settings.
type DatabaseConfig struct {
	URL string
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Logging: LoggingConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
		},
	}
}

// PersistenceEnabled reports whether results should also be archived to
// Postgres after the file artifacts are written.
func (c *Config) PersistenceEnabled() bool {
	return c.Database.URL != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
