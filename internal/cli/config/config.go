// Package config loads the Sailfin CLI's layered configuration: built-in
// defaults, then an optional project-level sailfin.yaml, then SAILFIN_*
// environment variables, then flags (bound by the commands that own
// them). Later layers win.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the Sailfin project configuration.
type Config struct {
	// OutputPath is where compiled programs land when no -o flag is
	// given; empty means adjacent to the input file.
	OutputPath string `mapstructure:"output_path"`

	// Color toggles colored terminal output.
	Color bool `mapstructure:"color"`

	// CacheDir holds the persistent compile cache (the SQLite file).
	CacheDir string `mapstructure:"cache_dir"`

	// Workers bounds parallelism for batch compiles and watch rebuilds.
	Workers int `mapstructure:"workers"`

	Cache CacheConfig `mapstructure:"cache"`
	Watch WatchConfig `mapstructure:"watch"`
}

// CacheConfig selects and configures the persistent target store.
type CacheConfig struct {
	// Backend is "sqlite" (default) or "redis".
	Backend string `mapstructure:"backend"`

	// RedisAddr is the host:port of the shared cache when Backend is
	// "redis".
	RedisAddr string `mapstructure:"redis_addr"`

	// RedisDB selects the Redis logical database.
	RedisDB int `mapstructure:"redis_db"`
}

// WatchConfig configures the watch-mode diagnostics server.
type WatchConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Load reads configuration from the working directory.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom reads configuration rooted at dir. A missing sailfin.yaml is
// fine — defaults and environment still apply; a malformed one is an
// error.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("output_path", "")
	v.SetDefault("color", true)
	v.SetDefault("cache_dir", filepath.Join(dir, ".sailfin"))
	v.SetDefault("workers", 4)
	v.SetDefault("cache.backend", "sqlite")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("watch.host", "localhost")
	v.SetDefault("watch.port", 9991)

	v.SetConfigName("sailfin")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("SAILFIN")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read sailfin.yaml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if cfg.Cache.Backend != "sqlite" && cfg.Cache.Backend != "redis" {
		return nil, fmt.Errorf("unknown cache backend %q (want sqlite or redis)", cfg.Cache.Backend)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &cfg, nil
}

// CacheDBPath returns the SQLite cache file path, creating the cache
// directory if needed.
func (c *Config) CacheDBPath() (string, error) {
	if err := os.MkdirAll(c.CacheDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}
	return filepath.Join(c.CacheDir, "cache.db"), nil
}
