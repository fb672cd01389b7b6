package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store backends
const (
	StoreBackendRedis    = "redis"
	StoreBackendSQLite   = "sqlite"
	StoreBackendPostgres = "postgres"
)

// Broker backends
const (
	BrokerBackendRedis  = "redis"
	BrokerBackendMemory = "memory"
)

// Config holds the process configuration
type Config struct {
	// Discord settings; the bot is disabled when the token is empty
	DiscordToken  string `env:"DISCORD_TOKEN"`
	ApplicationID string `env:"APPLICATION_ID"`
	GuildID       string `env:"GUILD_ID"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	StoreBackend  string `env:"STORE_BACKEND" envDefault:"redis"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"rollcall.db"`
	PostgresDSN   string `env:"POSTGRES_DSN"`
	BrokerBackend string `env:"BROKER_BACKEND" envDefault:"redis"`

	// HistoryLimit is how many recent rolls a history fetch returns
	HistoryLimit int `env:"HISTORY_LIMIT" envDefault:"20"`

	MaxSides      int `env:"MAX_SIDES" envDefault:"1000"`
	MaxDiceCount  int `env:"MAX_DICE_COUNT" envDefault:"20"`
	MaxBatchCount int `env:"MAX_BATCH_COUNT" envDefault:"10"`
	MaxModifier   int `env:"MAX_MODIFIER" envDefault:"99"`

	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads an optional .env file and then parses the environment
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks backend names and limits
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreBackendRedis, StoreBackendSQLite:
	case StoreBackendPostgres:
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required for the postgres store backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}

	switch c.BrokerBackend {
	case BrokerBackendRedis, BrokerBackendMemory:
	default:
		return fmt.Errorf("unknown broker backend %q", c.BrokerBackend)
	}

	if c.HistoryLimit <= 0 {
		return errors.New("HISTORY_LIMIT must be positive")
	}
	if c.MaxSides <= 0 || c.MaxDiceCount <= 0 || c.MaxBatchCount <= 0 || c.MaxModifier <= 0 {
		return errors.New("roll limits must be positive")
	}

	return nil
}
