// Package config defines the configuration structures for gem-thermo.  No
// I/O or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/turtacn/gem-thermo/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// PipelineConfig locates the inputs and outputs of a cache build.
type PipelineConfig struct {
	ModelPath string `mapstructure:"model_path"`

	// ModelName selects the entry of the compartment parameters file.  Empty
	// means the model document's id.
	ModelName string `mapstructure:"model_name"`

	OutputDir     string `mapstructure:"output_dir"`
	CompoundsFile string `mapstructure:"compounds_file"`
	ReactionsFile string `mapstructure:"reactions_file"`

	CompartmentParamsPath string `mapstructure:"compartment_params_path"`

	// RedoxCouplesPath empty means redox_couples.json next to the compound
	// cache, if present.
	RedoxCouplesPath string `mapstructure:"redox_couples_path"`

	ProtonIdentifiers        []string `mapstructure:"proton_identifiers"`
	HighUncertaintyThreshold float64  `mapstructure:"high_uncertainty_threshold"`
}

// EquilibratorConfig configures the external standard-ΔG service client.
type EquilibratorConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"` // requests per second; 0 disables throttling
	Burst     int           `mapstructure:"burst"`
	UserAgent string        `mapstructure:"user_agent"`

	// CacheLookups memoizes identifier and name lookups in Redis.
	CacheLookups bool          `mapstructure:"cache_lookups"`
	LookupTTL    time.Duration `mapstructure:"lookup_ttl"`
}

// ServerConfig holds HTTP read API tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the run store.
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// RedisConfig holds Redis connection parameters for the lookup memo.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// MinIOConfig holds object-storage parameters for cache artifacts.
type MinIOConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Prefix    string `mapstructure:"prefix"`
}

// KafkaConfig holds producer parameters for cache.built events.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	RequiredAcks int           `mapstructure:"required_acks"` // -1 all, 0 none, 1 leader
}

// MetricsConfig holds Prometheus parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// WatchConfig tunes the file watcher.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Log          logging.LogConfig  `mapstructure:"log"`
	Pipeline     PipelineConfig     `mapstructure:"pipeline"`
	Equilibrator EquilibratorConfig `mapstructure:"equilibrator"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	MinIO        MinIOConfig        `mapstructure:"minio"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	Watch        WatchConfig        `mapstructure:"watch"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.  It
// returns the first error encountered.  Sections of optional sinks are only
// checked when enabled.
func (c *Config) Validate() error {
	// Log
	switch c.Log.Level {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError:
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	// Pipeline
	if c.Pipeline.OutputDir == "" {
		return fmt.Errorf("config: pipeline.output_dir is required")
	}
	if c.Pipeline.CompoundsFile == "" || c.Pipeline.ReactionsFile == "" {
		return fmt.Errorf("config: pipeline.compounds_file and pipeline.reactions_file are required")
	}
	if c.Pipeline.CompoundsFile == c.Pipeline.ReactionsFile {
		return fmt.Errorf("config: pipeline.compounds_file and pipeline.reactions_file must differ")
	}
	if c.Pipeline.HighUncertaintyThreshold <= 0 {
		return fmt.Errorf("config: pipeline.high_uncertainty_threshold must be > 0, got %g", c.Pipeline.HighUncertaintyThreshold)
	}

	// Equilibrator
	u, err := url.Parse(c.Equilibrator.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: equilibrator.base_url %q is not an absolute URL", c.Equilibrator.BaseURL)
	}
	if c.Equilibrator.Timeout <= 0 {
		return fmt.Errorf("config: equilibrator.timeout must be > 0")
	}
	if c.Equilibrator.RateLimit < 0 {
		return fmt.Errorf("config: equilibrator.rate_limit must be ≥ 0, got %g", c.Equilibrator.RateLimit)
	}
	if c.Equilibrator.RateLimit > 0 && c.Equilibrator.Burst < 1 {
		return fmt.Errorf("config: equilibrator.burst must be ≥ 1 when rate_limit is set, got %d", c.Equilibrator.Burst)
	}
	if c.Equilibrator.CacheLookups && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when equilibrator.cache_lookups is set")
	}

	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	// Database
	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("config: database.host is required")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
		}
		if c.Database.User == "" {
			return fmt.Errorf("config: database.user is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("config: database.db_name is required")
		}
		if c.Database.MaxConns < 1 {
			return fmt.Errorf("config: database.max_conns must be ≥ 1, got %d", c.Database.MaxConns)
		}
	}

	// Redis
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
	}

	// MinIO
	if c.MinIO.Enabled {
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("config: minio.endpoint is required")
		}
		if c.MinIO.Bucket == "" {
			return fmt.Errorf("config: minio.bucket is required")
		}
	}

	// Kafka
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("config: kafka.topic is required")
		}
		switch c.Kafka.RequiredAcks {
		case -1, 0, 1:
		default:
			return fmt.Errorf("config: kafka.required_acks %d is invalid; expected -1|0|1", c.Kafka.RequiredAcks)
		}
	}

	return nil
}

//Personal.AI order the ending
