package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost = "0.0.0.0"
	DefaultServerPort = 8050

	DefaultPrimaryPath   = "data.csv"
	DefaultSecondaryPath = "bar_data.csv"
	DefaultDelimiter     = ","
	DefaultFetchTimeout  = 30 * time.Second

	DefaultColorBy           = "Region"
	DefaultAxisLayout        = "opportunity_y"
	DefaultBubbleSizeMin     = 50
	DefaultBubbleSizeMax     = 500
	DefaultBubbleSizeDefault = 200

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "obr:"
	DefaultRedisTTL       = 10 * time.Minute

	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "obr"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// NewDefaultConfig returns a Config with every field at its default.  The
// CLI uses it when no config file is given.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Metrics.Enabled = true
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	// ── Dataset ───────────────────────────────────────────────────────────────
	if cfg.Dataset.PrimaryPath == "" {
		cfg.Dataset.PrimaryPath = DefaultPrimaryPath
	}
	// SecondaryPath stays empty when unset: the bar chart is an optional variant.
	if cfg.Dataset.Delimiter == "" {
		cfg.Dataset.Delimiter = DefaultDelimiter
	}
	if cfg.Dataset.FetchTimeout == 0 {
		cfg.Dataset.FetchTimeout = DefaultFetchTimeout
	}

	// ── Dashboard ─────────────────────────────────────────────────────────────
	if cfg.Dashboard.DefaultColorBy == "" {
		cfg.Dashboard.DefaultColorBy = DefaultColorBy
	}
	if cfg.Dashboard.AxisLayout == "" {
		cfg.Dashboard.AxisLayout = DefaultAxisLayout
	}
	if cfg.Dashboard.BubbleSizeMin == 0 {
		cfg.Dashboard.BubbleSizeMin = DefaultBubbleSizeMin
	}
	if cfg.Dashboard.BubbleSizeMax == 0 {
		cfg.Dashboard.BubbleSizeMax = DefaultBubbleSizeMax
	}
	if cfg.Dashboard.BubbleSizeDefault == 0 {
		cfg.Dashboard.BubbleSizeDefault = DefaultBubbleSizeDefault
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultRedisTTL
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 5 * time.Second
	}
	// DB is an int; 0 is a valid explicit value so we cannot distinguish "not
	// set" from "set to 0".  We leave it as-is (0 is also the default).

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

//Personal.AI order the ending
