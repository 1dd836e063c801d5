package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// PostgresConfig holds the authoritative store connection settings.
type PostgresConfig struct {
	DSN string `json:"dsn" yaml:"dsn"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr      string `json:"addr" yaml:"addr"`
	Password  string `json:"password" yaml:"password"`
	DB        int    `json:"db" yaml:"db"`
	KeyPrefix string `json:"key_prefix" yaml:"key_prefix"`
}

// CacheConfig holds the TTL tiers for cached reads. Zero values fall back
// to the defaults in DefaultConfig.
type CacheConfig struct {
	EntityTTL    time.Duration `json:"-" yaml:"-"` // point entities and pair states
	ListTTL      time.Duration `json:"-" yaml:"-"` // counts, lists, stats
	AggregateTTL time.Duration `json:"-" yaml:"-"` // trending, timelines, suggestions
	LocalTTL     time.Duration `json:"-" yaml:"-"` // L1 tier when tiered caching is enabled
	Tiered       bool          `json:"tiered" yaml:"tiered"`
}

// cacheConfigWire is the on-disk shape of CacheConfig: durations are
// "15m"-style strings so config files stay readable.
type cacheConfigWire struct {
	EntityTTL    string `json:"entity_ttl" yaml:"entity_ttl"`
	ListTTL      string `json:"list_ttl" yaml:"list_ttl"`
	AggregateTTL string `json:"aggregate_ttl" yaml:"aggregate_ttl"`
	LocalTTL     string `json:"local_ttl" yaml:"local_ttl"`
	Tiered       *bool  `json:"tiered" yaml:"tiered"`
}

func (c *CacheConfig) apply(w cacheConfigWire) error {
	for _, f := range []struct {
		raw string
		dst *time.Duration
	}{
		{w.EntityTTL, &c.EntityTTL},
		{w.ListTTL, &c.ListTTL},
		{w.AggregateTTL, &c.AggregateTTL},
		{w.LocalTTL, &c.LocalTTL},
	} {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("parse cache ttl %q: %w", f.raw, err)
		}
		*f.dst = d
	}
	if w.Tiered != nil {
		c.Tiered = *w.Tiered
	}
	return nil
}

func (c *CacheConfig) UnmarshalJSON(data []byte) error {
	var w cacheConfigWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	return c.apply(w)
}

func (c *CacheConfig) UnmarshalYAML(value *yaml.Node) error {
	var w cacheConfigWire
	if err := value.Decode(&w); err != nil {
		return err
	}
	return c.apply(w)
}

// TelemetryConfig holds OpenTelemetry tracing settings.
type TelemetryConfig struct {
	Enabled    bool    `json:"enabled" yaml:"enabled"`
	Endpoint   string  `json:"endpoint" yaml:"endpoint"`
	SampleRate float64 `json:"sample_rate" yaml:"sample_rate"`
}

// RateLimitConfig holds the per-client request throttle settings.
type RateLimitConfig struct {
	Enabled           bool    `json:"enabled" yaml:"enabled"`
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
	Burst             int     `json:"burst" yaml:"burst"`
}

// DaemonConfig holds daemon-specific settings.
type DaemonConfig struct {
	HTTPAddr  string `json:"http_addr" yaml:"http_addr"`
	LogLevel  string `json:"log_level" yaml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format"`
}

// Config is the central configuration struct embedding all component configs.
type Config struct {
	Postgres  PostgresConfig  `json:"postgres" yaml:"postgres"`
	Redis     RedisConfig     `json:"redis" yaml:"redis"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry"`
	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`
	Daemon    DaemonConfig    `json:"daemon" yaml:"daemon"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Postgres: PostgresConfig{
			DSN: "",
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			Password:  "",
			DB:        0,
			KeyPrefix: "finch:",
		},
		Cache: CacheConfig{
			EntityTTL:    15 * time.Minute,
			ListTTL:      5 * time.Minute,
			AggregateTTL: 60 * time.Second,
			LocalTTL:     10 * time.Second,
			Tiered:       false,
		},
		Telemetry: TelemetryConfig{
			Enabled:    false,
			Endpoint:   "localhost:4318",
			SampleRate: 1.0,
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerSecond: 10,
			Burst:             30,
		},
		Daemon: DaemonConfig{
			HTTPAddr:  ":8080",
			LogLevel:  "info",
			LogFormat: "text",
		},
	}
}

// LoadFromFile loads configuration from a JSON or YAML file, decided by
// the file extension.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	return cfg, nil
}

// LoadFromEnv applies environment variable overrides to the config.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("FINCH_POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("FINCH_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("FINCH_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("FINCH_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
	if v := os.Getenv("FINCH_RATELIMIT_ENABLED"); v != "" {
		cfg.RateLimit.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("FINCH_HTTP_ADDR"); v != "" {
		cfg.Daemon.HTTPAddr = v
	}
	if v := os.Getenv("FINCH_LOG_LEVEL"); v != "" {
		cfg.Daemon.LogLevel = v
	}
	if v := os.Getenv("FINCH_LOG_FORMAT"); v != "" {
		cfg.Daemon.LogFormat = v
	}
}
