package config

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "DATABASE_DSN", "JWT_SECRET", "JWT_EXPIRY", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Env != "development" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.DatabaseDSN != "" {
		t.Errorf("expected database disabled by default, got %q", cfg.DatabaseDSN)
	}
	if cfg.JWTExpiry != 24*time.Hour {
		t.Errorf("JWTExpiry = %v, want 24h", cfg.JWTExpiry)
	}
	if cfg.RateLimit != 5 || cfg.RateBurst != 10 {
		t.Errorf("rate limit = %v/%d, want 5/10", cfg.RateLimit, cfg.RateBurst)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want INFO", cfg.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRY", "90m")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RATE_LIMIT_BURST", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Port != "9090" || cfg.JWTExpiry != 90*time.Minute || cfg.LogLevel != slog.LevelDebug || cfg.RateBurst != 3 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad expiry", env: map[string]string{"JWT_EXPIRY": "soon"}},
		{name: "bad rps", env: map[string]string{"RATE_LIMIT_RPS": "fast"}},
		{name: "bad burst", env: map[string]string{"RATE_LIMIT_BURST": "1.5"}},
		{name: "bad log level", env: map[string]string{"LOG_LEVEL": "chatty"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("Load() expected error")
			}
		})
	}
}

func TestLoadRejectsDevSecretInProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); !errors.Is(err, ErrDevSecretInProduction) {
		t.Fatalf("Load() error = %v, want %v", err, ErrDevSecretInProduction)
	}

	t.Setenv("JWT_SECRET", "a-real-secret")
	if _, err := Load(); err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
}
