// Package config loads process configuration from the environment
package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/KirkDiggler/charforge/internal/errors"
)

// Store backends
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Log formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds all configuration for the process
type Config struct {
	Store  string `env:"STORE" envDefault:"sqlite"`
	SQLite SQLiteConfig
	Redis  RedisConfig
	Log    LogConfig
	Export ExportConfig
	SRD    SRDConfig
}

// SQLiteConfig configures the SQLite store
type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH" envDefault:"charforge.db"`
}

// RedisConfig configures the Redis store
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LogConfig configures slog
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// ExportConfig configures the sheet exporter. An empty Dir disables it.
type ExportConfig struct {
	Dir string `env:"EXPORT_DIR"`
}

// SRDConfig configures the dnd5e API ruleset
type SRDConfig struct {
	Enabled  bool          `env:"SRD_ENABLED" envDefault:"false"`
	BaseURL  string        `env:"SRD_BASE_URL" envDefault:"https://www.dnd5eapi.co/api/2014/"`
	Timeout  time.Duration `env:"SRD_TIMEOUT" envDefault:"30s"`
	CacheTTL time.Duration `env:"SRD_CACHE_TTL" envDefault:"24h"`
}

// Prefix is prepended to every environment key
const Prefix = "CHARFORGE_"

// Load reads an optional .env file and parses the environment
func Load(dotenvPaths ...string) (*Config, error) {
	if err := godotenv.Load(dotenvPaths...); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load .env file")
	}
	return Parse()
}

// Parse reads configuration from the environment without touching .env files
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: Prefix}); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// Validate checks the enumerated settings
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateEnum("Store", c.Store, []string{StoreSQLite, StoreRedis, StoreMemory}, vb)
	errors.ValidateEnum("Log.Format", c.Log.Format, []string{LogFormatText, LogFormatJSON}, vb)
	if _, ok := parseLevel(c.Log.Level); !ok {
		vb.InvalidField("Log.Level", "must be debug, info, warn or error")
	}
	if c.Store == StoreSQLite {
		errors.ValidateRequired("SQLite.Path", c.SQLite.Path, vb)
	}
	if c.Store == StoreRedis {
		errors.ValidateRequired("Redis.Addr", c.Redis.Addr, vb)
	}
	return vb.Build()
}

// SlogLevel returns the configured log level
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
