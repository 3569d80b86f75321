package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the configuration settings for the match engine.
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	Sync          SyncConfig          `yaml:"sync"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// HTTPConfig holds the public API listener configuration.
type HTTPConfig struct {
	Address string `yaml:"address"`
}

// SyncConfig tunes the offline sync queue.
type SyncConfig struct {
	// MaxRetries is the retry ceiling; at or above it an item is frozen failed.
	MaxRetries int `yaml:"max_retries"`
	// Retention is how long completed items are kept for sync-history audit.
	Retention time.Duration `yaml:"retention"`
	// DrainRate caps replayed items per second during a drain.
	DrainRate float64 `yaml:"drain_rate"`
}

// ObservabilityConfig holds configuration for observability components.
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
}

const (
	defaultSyncMaxRetries = 3
	defaultSyncRetention  = 24 * time.Hour
	defaultSyncDrainRate  = 10.0
	defaultHTTPAddress    = ":8080"
)

// LoadConfig loads the configuration from a YAML file, falling back to
// environment variables when the file is missing. Environment variables
// override file values when both are present.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filename)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("SYNC_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sync.MaxRetries = n
		}
	}
	if v := os.Getenv("SYNC_RETENTION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Sync.Retention = d
		}
	}
	if v := os.Getenv("SYNC_DRAIN_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Sync.DrainRate = f
		}
	}

	cfg.applyDefaults()

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("postgres DSN not set (config file or DATABASE_URL)")
	}
	if cfg.NATS.URL == "" {
		return nil, fmt.Errorf("NATS URL not set (config file or NATS_URL)")
	}

	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Sync.MaxRetries == 0 {
		cfg.Sync.MaxRetries = defaultSyncMaxRetries
	}
	if cfg.Sync.Retention == 0 {
		cfg.Sync.Retention = defaultSyncRetention
	}
	if cfg.Sync.DrainRate == 0 {
		cfg.Sync.DrainRate = defaultSyncDrainRate
	}
	if cfg.HTTP.Address == "" {
		cfg.HTTP.Address = defaultHTTPAddress
	}
}
