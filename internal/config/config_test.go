package config

import (
	"testing"
	"time"
)

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("TECHFLOW_TOKEN_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without TECHFLOW_TOKEN_SECRET")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TECHFLOW_TOKEN_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.RateLimitPerSec != 20 || cfg.RateLimitBurst != 40 {
		t.Errorf("rate limit = %d/%d", cfg.RateLimitPerSec, cfg.RateLimitBurst)
	}
	if cfg.MaxBodyBytes != 1<<20 {
		t.Errorf("MaxBodyBytes = %d", cfg.MaxBodyBytes)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TECHFLOW_TOKEN_SECRET", "s3cret")
	t.Setenv("TECHFLOW_ADDR", ":9999")
	t.Setenv("TECHFLOW_RATE_LIMIT_PER_SEC", "5")
	t.Setenv("TECHFLOW_MAX_HASH_LANES", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.RateLimitPerSec != 5 {
		t.Errorf("RateLimitPerSec = %d", cfg.RateLimitPerSec)
	}
	if cfg.MaxHashLanes != 2 {
		t.Errorf("MaxHashLanes = %d", cfg.MaxHashLanes)
	}
}

func TestLoadIgnoresBadInt(t *testing.T) {
	t.Setenv("TECHFLOW_TOKEN_SECRET", "s3cret")
	t.Setenv("TECHFLOW_RATE_LIMIT_PER_SEC", "many")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RateLimitPerSec != 20 {
		t.Errorf("RateLimitPerSec = %d, want default", cfg.RateLimitPerSec)
	}
}
