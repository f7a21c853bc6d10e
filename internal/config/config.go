// Package config defines all configuration structures for the readiness
// dashboard.  No I/O or parsing logic lives here, only plain data types and
// validation.
package config

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// CORSAllowedOrigins lists browser origins allowed to call the API.
	// Empty disables CORS headers.
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// Addr returns host:port suitable for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatasetConfig locates the primary and secondary tables.  Paths may be a
// local file, an http(s) URL or an s3://bucket/key object reference.
type DatasetConfig struct {
	PrimaryPath    string        `mapstructure:"primary_path"`
	SecondaryPath  string        `mapstructure:"secondary_path"`
	Delimiter      string        `mapstructure:"delimiter"`
	ReloadInterval time.Duration `mapstructure:"reload_interval"` // 0 disables periodic reload
	Watch          bool          `mapstructure:"watch"`           // fsnotify on local paths
	FetchTimeout   time.Duration `mapstructure:"fetch_timeout"`
}

// DelimiterRune returns the configured delimiter as a rune.
func (d DatasetConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(d.Delimiter)
	return r
}

// DashboardConfig holds chart defaults and bounds.
type DashboardConfig struct {
	DefaultColorBy    string `mapstructure:"default_color_by"` // Region | Country | Influence
	AxisLayout        string `mapstructure:"axis_layout"`      // opportunity_y | regulatory_y
	BubbleSizeMin     int    `mapstructure:"bubble_size_min"`
	BubbleSizeMax     int    `mapstructure:"bubble_size_max"`
	BubbleSizeDefault int    `mapstructure:"bubble_size_default"`
}

// RedisConfig holds Redis connection parameters for the optional view cache.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// MinIOConfig holds MinIO / S3-compatible object-storage parameters used when
// a dataset path has the s3:// scheme.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Path      string `mapstructure:"path"`
	Namespace string `mapstructure:"namespace"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
	Output string `mapstructure:"output"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the service and the CLI.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Redis     RedisConfig     `mapstructure:"redis"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Log       LogConfig       `mapstructure:"log"`
}

// UsesObjectStorage reports whether any dataset path points at s3://.
func (c *Config) UsesObjectStorage() bool {
	return strings.HasPrefix(c.Dataset.PrimaryPath, "s3://") ||
		strings.HasPrefix(c.Dataset.SecondaryPath, "s3://")
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}

	// Dataset
	if c.Dataset.PrimaryPath == "" {
		return fmt.Errorf("config: dataset.primary_path is required")
	}
	if utf8.RuneCountInString(c.Dataset.Delimiter) != 1 {
		return fmt.Errorf("config: dataset.delimiter %q must be a single character", c.Dataset.Delimiter)
	}
	if c.Dataset.ReloadInterval < 0 {
		return fmt.Errorf("config: dataset.reload_interval must be ≥ 0, got %s", c.Dataset.ReloadInterval)
	}

	// Dashboard
	switch c.Dashboard.DefaultColorBy {
	case "Region", "Country", "Influence":
	default:
		return fmt.Errorf("config: dashboard.default_color_by %q is invalid; expected Region|Country|Influence", c.Dashboard.DefaultColorBy)
	}
	switch c.Dashboard.AxisLayout {
	case "opportunity_y", "regulatory_y":
	default:
		return fmt.Errorf("config: dashboard.axis_layout %q is invalid; expected opportunity_y|regulatory_y", c.Dashboard.AxisLayout)
	}
	if c.Dashboard.BubbleSizeMin < 1 || c.Dashboard.BubbleSizeMin > c.Dashboard.BubbleSizeMax {
		return fmt.Errorf("config: dashboard.bubble_size_min %d must be in [1, bubble_size_max]", c.Dashboard.BubbleSizeMin)
	}
	if c.Dashboard.BubbleSizeDefault < c.Dashboard.BubbleSizeMin || c.Dashboard.BubbleSizeDefault > c.Dashboard.BubbleSizeMax {
		return fmt.Errorf("config: dashboard.bubble_size_default %d is outside [%d, %d]",
			c.Dashboard.BubbleSizeDefault, c.Dashboard.BubbleSizeMin, c.Dashboard.BubbleSizeMax)
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required when redis.enabled is true")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
		}
	}

	// MinIO
	if c.UsesObjectStorage() && c.MinIO.Endpoint == "" {
		return fmt.Errorf("config: minio.endpoint is required for s3:// dataset paths")
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}

//Personal.AI order the ending
