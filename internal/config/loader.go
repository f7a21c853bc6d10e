// Package config provides configuration loading, defaults, and validation for
// the readiness dashboard.
package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "OBR"

// configKeys lists every leaf key so that AutomaticEnv can resolve env-only
// settings during Unmarshal (viper only consults env for keys it knows about).
var configKeys = []string{
	"server.host", "server.port", "server.read_timeout", "server.write_timeout",
	"server.idle_timeout", "server.shutdown_timeout", "server.cors_allowed_origins",
	"dataset.primary_path", "dataset.secondary_path", "dataset.delimiter",
	"dataset.reload_interval", "dataset.watch", "dataset.fetch_timeout",
	"dashboard.default_color_by", "dashboard.axis_layout", "dashboard.bubble_size_min",
	"dashboard.bubble_size_max", "dashboard.bubble_size_default",
	"redis.enabled", "redis.addr", "redis.password", "redis.db", "redis.pool_size",
	"redis.min_idle_conns", "redis.dial_timeout", "redis.read_timeout",
	"redis.write_timeout", "redis.default_ttl", "redis.key_prefix",
	"minio.endpoint", "minio.access_key", "minio.secret_key", "minio.region", "minio.use_ssl",
	"metrics.enabled", "metrics.path", "metrics.namespace",
	"log.level", "log.format", "log.output",
}

// newViper builds a pre-configured Viper instance: YAML file type, OBR_ env
// prefix, automatic env binding, and a key replacer that maps "." → "_" so
// that nested keys like "dataset.primary_path" resolve to
// "OBR_DATASET_PRIMARY_PATH".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range configKeys {
		_ = v.BindEnv(k)
	}
	v.SetDefault("metrics.enabled", true)
	return v
}

// Load reads the YAML file at configPath, merges any OBR_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.  An empty configPath behaves like LoadFromEnv.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from OBR_* environment variables,
// with no config file required.
//
// Environment variable naming convention:
//
//	OBR_<SECTION>_<FIELD>   e.g.  OBR_DATASET_PRIMARY_PATH, OBR_REDIS_ADDR
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk.  The server reacts
// by reloading its dataset; other changes need a restart.
//
// Watch is non-blocking; it starts a background goroutine managed by viper.
// If the changed file fails to parse or validate, onChange is NOT called and
// onError (if non-nil) receives the error.
func Watch(configPath string, onChange func(*Config), onError func(error)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read errors are ignored; callers Load first.
	_ = v.ReadInConfig()

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}

// MustLoad is a convenience wrapper around Load that panics on any error.
// It is intended for use in main() where a config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

//Personal.AI order the ending
