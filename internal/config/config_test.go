package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"CHORETRACKER_PORT", "CHORETRACKER_DB_PATH", "CHORETRACKER_LOG_LEVEL",
		"CHORETRACKER_LOG_FORMAT", "CHORETRACKER_SEED_FILE", "CHORETRACKER_TIMEZONE",
		"CHORETRACKER_ROLLOVER_INTERVAL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.DBPath != "choretracker.db" {
		t.Errorf("db path = %q, want choretracker.db", cfg.DBPath)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("log = %q/%q, want info/text", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.SeedFile != "" {
		t.Errorf("seed file = %q, want empty", cfg.SeedFile)
	}
	if cfg.Location != time.Local {
		t.Errorf("location = %v, want Local", cfg.Location)
	}
	if cfg.RolloverInterval != time.Minute {
		t.Errorf("rollover = %v, want 1m", cfg.RolloverInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CHORETRACKER_PORT", "9000")
	t.Setenv("CHORETRACKER_DB_PATH", "/tmp/chores.db")
	t.Setenv("CHORETRACKER_LOG_FORMAT", "JSON")
	t.Setenv("CHORETRACKER_SEED_FILE", "chores.yaml")
	t.Setenv("CHORETRACKER_TIMEZONE", "UTC")
	t.Setenv("CHORETRACKER_ROLLOVER_INTERVAL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9000" || cfg.DBPath != "/tmp/chores.db" || cfg.SeedFile != "chores.yaml" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("log format = %q, want json", cfg.LogFormat)
	}
	if cfg.Location.String() != "UTC" {
		t.Errorf("location = %v, want UTC", cfg.Location)
	}
	if cfg.RolloverInterval != 30*time.Second {
		t.Errorf("rollover = %v, want 30s", cfg.RolloverInterval)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"CHORETRACKER_PORT", "http"},
		{"CHORETRACKER_PORT", "70000"},
		{"CHORETRACKER_LOG_FORMAT", "xml"},
		{"CHORETRACKER_TIMEZONE", "Mars/Olympus"},
		{"CHORETRACKER_ROLLOVER_INTERVAL", "soon"},
		{"CHORETRACKER_ROLLOVER_INTERVAL", "-1s"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
