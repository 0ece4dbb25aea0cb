package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is read once at startup from the environment.
type Config struct {
	// DatabaseURL is the central connection URL. Tenant pools reuse it with
	// only the database path swapped.
	DatabaseURL string
	// RootDomain is the apex the request-time resolver matches subdomains
	// against, e.g. "consultly.app".
	RootDomain string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	Port      int

	// ScanInterval is how often the background scanner walks all tenants.
	ScanInterval time.Duration
}

// Load reads configuration from the environment, applying development
// defaults everywhere but the database URL.
func Load() (*Config, error) {
	cfg := &Config{
		RootDomain:    getEnv("ROOT_DOMAIN", "consultly.local"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
	}

	// USE_LOCAL_PROXY routes through a local connection proxy in
	// development; only the base URL changes, never the per-tenant naming.
	if os.Getenv("USE_LOCAL_PROXY") == "true" {
		cfg.DatabaseURL = os.Getenv("DATABASE_LOCAL_PROXY_URL")
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("USE_LOCAL_PROXY is set but DATABASE_LOCAL_PROXY_URL is empty")
		}
	} else {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required")
		}
	}

	redisDB, err := intEnv("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cfg.RedisDB = redisDB

	port, err := intEnv("PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	scanSeconds, err := intEnv("SCAN_INTERVAL_SECONDS", 60)
	if err != nil {
		return nil, err
	}
	cfg.ScanInterval = time.Duration(scanSeconds) * time.Second

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
