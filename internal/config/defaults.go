// Package config provides configuration loading, defaults, and validation for
// gem-thermo.
package config

import (
	"time"

	"github.com/turtacn/gem-thermo/internal/domain/thermo"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultOutputDir                = "data"
	DefaultCompoundsFile            = "compounds_thermo.json"
	DefaultReactionsFile            = "reactions_thermo.json"
	DefaultRedoxCouplesFile         = "redox_couples.json"
	DefaultHighUncertaintyThreshold = 1000.0

	DefaultEquilibratorURL     = "http://localhost:8000"
	DefaultEquilibratorTimeout = 30 * time.Second
	DefaultEquilibratorBurst   = 1
	DefaultUserAgent           = "gemthermo/1.0"
	DefaultLookupTTL           = 7 * 24 * time.Hour

	DefaultServerPort = 8080
	DefaultServerMode = "release"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "gemthermo"
	DefaultDBMaxConns = 10

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "gemthermo:"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "gem-thermo"

	DefaultKafkaBroker = "localhost:9092"
	DefaultKafkaTopic  = "gemthermo.cache.built"

	DefaultMetricsNamespace = "gemthermo"
	DefaultMetricsPath      = "/metrics"

	DefaultWatchDebounce = 500 * time.Millisecond

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with its default.  Fields
// that have already been set are left unchanged so that explicit
// configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Pipeline ──────────────────────────────────────────────────────────────
	if cfg.Pipeline.OutputDir == "" {
		cfg.Pipeline.OutputDir = DefaultOutputDir
	}
	if cfg.Pipeline.CompoundsFile == "" {
		cfg.Pipeline.CompoundsFile = DefaultCompoundsFile
	}
	if cfg.Pipeline.ReactionsFile == "" {
		cfg.Pipeline.ReactionsFile = DefaultReactionsFile
	}
	if len(cfg.Pipeline.ProtonIdentifiers) == 0 {
		cfg.Pipeline.ProtonIdentifiers = append([]string(nil), thermo.DefaultProtonIdentifiers...)
	}
	if cfg.Pipeline.HighUncertaintyThreshold == 0 {
		cfg.Pipeline.HighUncertaintyThreshold = DefaultHighUncertaintyThreshold
	}

	// ── Equilibrator ──────────────────────────────────────────────────────────
	if cfg.Equilibrator.BaseURL == "" {
		cfg.Equilibrator.BaseURL = DefaultEquilibratorURL
	}
	if cfg.Equilibrator.Timeout == 0 {
		cfg.Equilibrator.Timeout = DefaultEquilibratorTimeout
	}
	if cfg.Equilibrator.Burst == 0 {
		cfg.Equilibrator.Burst = DefaultEquilibratorBurst
	}
	if cfg.Equilibrator.UserAgent == "" {
		cfg.Equilibrator.UserAgent = DefaultUserAgent
	}
	if cfg.Equilibrator.LookupTTL == 0 {
		cfg.Equilibrator.LookupTTL = DefaultLookupTTL
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	// DB is an int; 0 is a valid explicit value and also the default.

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = 10 * time.Second
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── Watch ─────────────────────────────────────────────────────────────────
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
}

// NewDefaultConfig returns a Config with every default applied.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

//Personal.AI order the ending
