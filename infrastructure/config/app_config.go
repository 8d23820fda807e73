package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"exostandards/database"
	"exostandards/logging"
)

// AppConfig holds application-wide system configuration.
// Per-run standard settings arrive with each request, not here.
type AppConfig struct {
	HTTPAddr        string
	HTTPLogPath     string
	RunTimeout      time.Duration
	ShutdownTimeout time.Duration
	Database        *database.Config
	Logging         *logging.Config
}

// LoadAppConfigFromEnv loads complete application configuration from environment variables.
func LoadAppConfigFromEnv() *AppConfig {
	return &AppConfig{
		HTTPAddr:        getEnvWithDefault("HTTP_ADDR", ":8080"),
		HTTPLogPath:     getEnvWithDefault("HTTP_LOG_PATH", ""),
		RunTimeout:      getEnvDurationWithDefault("STANDARDS_RUN_TIMEOUT", 2*time.Minute),
		ShutdownTimeout: getEnvDurationWithDefault("SHUTDOWN_TIMEOUT", 30*time.Second),
		Database:        LoadDatabaseConfigFromEnv(),
		Logging:         LoadLoggingConfigFromEnv(),
	}
}

// LoadDatabaseConfigFromEnv loads database configuration from environment variables.
func LoadDatabaseConfigFromEnv() *database.Config {
	defaults := database.DefaultConfig()
	return &database.Config{
		Path:            getEnvWithDefault("DB_PATH", defaults.Path),
		MaxOpenConns:    getEnvIntWithDefault("DB_MAX_OPEN_CONNS", defaults.MaxOpenConns),
		MaxIdleConns:    getEnvIntWithDefault("DB_MAX_IDLE_CONNS", defaults.MaxIdleConns),
		ConnMaxLifetime: getEnvDurationWithDefault("DB_CONN_MAX_LIFETIME", defaults.ConnMaxLifetime),
		ConnMaxIdleTime: getEnvDurationWithDefault("DB_CONN_MAX_IDLE_TIME", defaults.ConnMaxIdleTime),
		BusyTimeoutMs:   getEnvIntWithDefault("DB_BUSY_TIMEOUT_MS", defaults.BusyTimeoutMs),
		EnableWAL:       getEnvBoolWithDefault("DB_ENABLE_WAL", defaults.EnableWAL),
	}
}

// LoadLoggingConfigFromEnv loads logging configuration from environment variables.
func LoadLoggingConfigFromEnv() *logging.Config {
	return &logging.Config{
		Level:  getEnvWithDefault("LOG_LEVEL", "info"),
		Format: getEnvWithDefault("LOG_FORMAT", "json"),
		Output: getEnvWithDefault("LOG_OUTPUT", "stdout"),
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(v string, def bool) bool {
	v = strings.TrimSpace(strings.ToLower(v))
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// Helper functions for environment variable parsing.
func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return parseBool(value, defaultValue)
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
