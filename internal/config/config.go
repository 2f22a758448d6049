package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	Port             string
	DBPath           string
	LogLevel         string
	LogFormat        string // text, json
	SeedFile         string
	Location         *time.Location
	RolloverInterval time.Duration
}

// Load reads CHORETRACKER_* environment variables, applying defaults for
// anything unset, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("CHORETRACKER_PORT", "8080"),
		DBPath:           getEnv("CHORETRACKER_DB_PATH", "choretracker.db"),
		LogLevel:         getEnv("CHORETRACKER_LOG_LEVEL", "info"),
		LogFormat:        strings.ToLower(getEnv("CHORETRACKER_LOG_FORMAT", "text")),
		SeedFile:         os.Getenv("CHORETRACKER_SEED_FILE"),
		Location:         time.Local,
		RolloverInterval: time.Minute,
	}

	if tz := os.Getenv("CHORETRACKER_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("CHORETRACKER_TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}

	if v := os.Getenv("CHORETRACKER_ROLLOVER_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("CHORETRACKER_ROLLOVER_INTERVAL: %w", err)
		}
		cfg.RolloverInterval = d
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("CHORETRACKER_PORT must be a port number, got %q", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("CHORETRACKER_DB_PATH is required")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown CHORETRACKER_LOG_FORMAT: %s", c.LogFormat)
	}
	if c.RolloverInterval <= 0 {
		return fmt.Errorf("CHORETRACKER_ROLLOVER_INTERVAL must be positive, got %s", c.RolloverInterval)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
