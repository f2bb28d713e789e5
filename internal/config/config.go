// Package config loads countdown settings from YAML and the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/offerkit/countdown-go/pkg/countdown"
	"github.com/offerkit/countdown-go/pkg/persistence"
)

// Config defines countdown configuration.
type Config struct {
	Countdown CountdownConfig `yaml:"countdown"`
	Store     StoreConfig     `yaml:"store"`
	Log       LogConfig       `yaml:"log"`
}

type CountdownConfig struct {
	Key      string        `yaml:"key"`
	Duration time.Duration `yaml:"duration"`
	Interval time.Duration `yaml:"interval"`
	Labels   bool          `yaml:"labels"`
}

type StoreConfig struct {
	Kind  string      `yaml:"kind"`
	Path  string      `yaml:"path"`
	DSN   string      `yaml:"dsn"`
	Redis RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	EventLog string `yaml:"event_log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Countdown: CountdownConfig{
			Key:      countdown.DefaultKey,
			Duration: countdown.DefaultDuration,
			Interval: countdown.DefaultInterval,
		},
		Store: StoreConfig{
			Kind: persistence.KindFile,
			Path: defaultStatePath(),
			DSN:  "countdown.db",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: persistence.DefaultRedisPrefix,
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "countdown-state.json"
	}
	return dir + string(os.PathSeparator) + "countdown" + string(os.PathSeparator) + "state.json"
}

// Load reads configuration from an optional YAML file and environment variables.
// path takes precedence over COUNTDOWN_CONFIG_PATH.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("COUNTDOWN_CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("COUNTDOWN_KEY"); v != "" {
		cfg.Countdown.Key = v
	}
	if v := os.Getenv("COUNTDOWN_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid COUNTDOWN_DURATION: %w", err)
		}
		cfg.Countdown.Duration = d
	}
	if v := os.Getenv("COUNTDOWN_STORE"); v != "" {
		cfg.Store.Kind = v
	}
	if v := os.Getenv("COUNTDOWN_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("COUNTDOWN_SQLITE_DSN"); v != "" {
		cfg.Store.DSN = v
	}
	if v := os.Getenv("COUNTDOWN_REDIS_ADDR"); v != "" {
		cfg.Store.Redis.Addr = v
	}
	if v := os.Getenv("COUNTDOWN_REDIS_PASSWORD"); v != "" {
		cfg.Store.Redis.Password = v
	}
	if v := os.Getenv("COUNTDOWN_REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid COUNTDOWN_REDIS_DB: %w", err)
		}
		cfg.Store.Redis.DB = db
	}
	if v := os.Getenv("COUNTDOWN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("COUNTDOWN_EVENT_LOG"); v != "" {
		cfg.Log.EventLog = v
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Countdown.Key == "" {
		return fmt.Errorf("countdown.key must not be empty")
	}
	if c.Countdown.Duration < 0 || c.Countdown.Duration > countdown.MaxDuration {
		return fmt.Errorf("countdown.duration %v out of range [0, %v]", c.Countdown.Duration, countdown.MaxDuration)
	}
	if c.Countdown.Interval <= 0 {
		return fmt.Errorf("countdown.interval must be positive")
	}
	switch c.Store.Kind {
	case persistence.KindMemory, persistence.KindFile, persistence.KindSQLite, persistence.KindRedis:
	default:
		return fmt.Errorf("store.kind %q not one of memory, file, sqlite, redis", c.Store.Kind)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Persistence converts the store section into a persistence.Config.
func (c *Config) Persistence() persistence.Config {
	return persistence.Config{
		Kind:          c.Store.Kind,
		Path:          c.Store.Path,
		DSN:           c.Store.DSN,
		RedisAddr:     c.Store.Redis.Addr,
		RedisPassword: c.Store.Redis.Password,
		RedisDB:       c.Store.Redis.DB,
		RedisPrefix:   c.Store.Redis.Prefix,
	}
}

// ParseLevel converts a level name to an slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", s)
	}
}
