package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Cache.EntityTTL != 15*time.Minute {
		t.Errorf("EntityTTL = %v, want 15m", cfg.Cache.EntityTTL)
	}
	if cfg.Cache.ListTTL != 5*time.Minute {
		t.Errorf("ListTTL = %v, want 5m", cfg.Cache.ListTTL)
	}
	if cfg.Cache.AggregateTTL != 60*time.Second {
		t.Errorf("AggregateTTL = %v, want 60s", cfg.Cache.AggregateTTL)
	}
	if cfg.Redis.KeyPrefix != "finch:" {
		t.Errorf("KeyPrefix = %q", cfg.Redis.KeyPrefix)
	}
}

func TestLoadFromFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finch.yaml")
	data := `
redis:
  addr: redis.internal:6380
cache:
  entity_ttl: 1m
  tiered: true
daemon:
  http_addr: ":9090"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Redis.Addr != "redis.internal:6380" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.Cache.EntityTTL != time.Minute {
		t.Errorf("EntityTTL = %v, want 1m", cfg.Cache.EntityTTL)
	}
	if !cfg.Cache.Tiered {
		t.Error("Tiered should be true")
	}
	// Untouched keys keep defaults.
	if cfg.Cache.ListTTL != 5*time.Minute {
		t.Errorf("ListTTL = %v, want default 5m", cfg.Cache.ListTTL)
	}
	if cfg.Daemon.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q", cfg.Daemon.HTTPAddr)
	}
}

func TestLoadFromFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finch.json")
	data := `{"postgres":{"dsn":"postgres://localhost/finch"},"rate_limit":{"enabled":true,"requests_per_second":5,"burst":10}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Postgres.DSN != "postgres://localhost/finch" {
		t.Errorf("DSN = %q", cfg.Postgres.DSN)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.Burst != 10 {
		t.Errorf("RateLimit = %+v", cfg.RateLimit)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FINCH_REDIS_ADDR", "cache:6379")
	t.Setenv("FINCH_REDIS_DB", "3")
	t.Setenv("FINCH_LOG_LEVEL", "debug")
	t.Setenv("FINCH_RATELIMIT_ENABLED", "true")

	cfg := DefaultConfig()
	LoadFromEnv(cfg)

	if cfg.Redis.Addr != "cache:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("Redis.DB = %d", cfg.Redis.DB)
	}
	if cfg.Daemon.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.Daemon.LogLevel)
	}
	if !cfg.RateLimit.Enabled {
		t.Error("RateLimit.Enabled should be true")
	}
}
