package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything read from the environment at process start. It
// is constructed once in main and handed to component constructors; no
// package reads the environment after that.
type Config struct {
	Addr            string
	PostgresDSN     string
	TokenSecret     string
	TokenIssuer     string
	TokenAudience   string
	MaxHashLanes    int
	RateLimitPerSec int
	RateLimitBurst  int
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
}

// Load reads TECHFLOW_* variables and applies defaults. The token secret
// is the only hard requirement.
func Load() (Config, error) {
	cfg := Config{
		Addr:            getenv("TECHFLOW_ADDR", ":8080"),
		PostgresDSN:     os.Getenv("TECHFLOW_PG_DSN"),
		TokenSecret:     strings.TrimSpace(os.Getenv("TECHFLOW_TOKEN_SECRET")),
		TokenIssuer:     os.Getenv("TECHFLOW_TOKEN_ISSUER"),
		TokenAudience:   os.Getenv("TECHFLOW_TOKEN_AUDIENCE"),
		MaxHashLanes:    getenvInt("TECHFLOW_MAX_HASH_LANES", 0),
		RateLimitPerSec: getenvInt("TECHFLOW_RATE_LIMIT_PER_SEC", 20),
		RateLimitBurst:  getenvInt("TECHFLOW_RATE_LIMIT_BURST", 40),
		MaxBodyBytes:    int64(getenvInt("TECHFLOW_MAX_BODY_BYTES", 1<<20)),
		ShutdownTimeout: 10 * time.Second,
	}
	if cfg.TokenSecret == "" {
		return Config{}, errors.New("config: TECHFLOW_TOKEN_SECRET is required")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
