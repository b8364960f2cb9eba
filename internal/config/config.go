package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"
)

type Config struct {
	// Console
	ServerURL string
	Timeout   time.Duration
	LogFile   string

	// Fixture server
	Port     string
	RedisURL string

	Environment string
	LogLevel    slog.Level
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	timeout, err := time.ParseDuration(getEnv("MYTHGARDEN_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid MYTHGARDEN_TIMEOUT: %w", err)
	}

	cfg := &Config{
		ServerURL:   strings.TrimRight(getEnv("MYTHGARDEN_URL", "http://localhost:8080"), "/"),
		Timeout:     timeout,
		LogFile:     getEnv("MYTHGARDEN_LOG_FILE", "mythgarden-console.log"),
		Port:        getEnv("PORT", "8080"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid MYTHGARDEN_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid MYTHGARDEN_URL %q: scheme must be http or https", c.ServerURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid MYTHGARDEN_TIMEOUT %s: must be positive", c.Timeout)
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
