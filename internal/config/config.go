package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	defaultServerPort    = 8060
	defaultServerTimeout = 30
	defaultStoreTimeout  = 30
	defaultRedisAddress  = "localhost:6379"
	defaultPageSize      = 12
	defaultCacheTTL      = 15 * time.Minute
)

type Config struct {
	Debug    bool           `env:"APP_DEBUG" yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Redis    RedisConfig    `yaml:"redis"`
	Listings ListingsConfig `yaml:"listings"`
}

type ServerConfig struct {
	Host         string        `env:"SERVER_HOST"  yaml:"host"`
	Port         int           `env:"SERVER_PORT"  yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" yaml:"cors_origins"`
}

// StoreConfig holds connection settings for the remote document store.
type StoreConfig struct {
	BaseURL    string        `env:"STORE_BASE_URL"   yaml:"base_url"`
	APIKey     string        `env:"STORE_API_KEY"    yaml:"api_key"`
	Collection string        `env:"STORE_COLLECTION" yaml:"collection"`
	Timeout    time.Duration `yaml:"timeout"`
}

// RedisConfig holds Redis settings for the image cache and event stream.
type RedisConfig struct {
	Address  string `env:"REDIS_ADDRESS"        yaml:"address"`
	Password string `env:"REDIS_PASSWORD"       yaml:"password"`
	DB       int    `env:"REDIS_DB"             yaml:"db"`
	Enabled  bool   `env:"REDIS_EVENTS_ENABLED" yaml:"enabled"`
}

// ListingsConfig holds domain settings for the listing collection.
type ListingsConfig struct {
	PageSize int           `env:"LISTINGS_PAGE_SIZE" yaml:"page_size"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return errors.New("server.host is required")
	}
	if c.Server.Port <= 0 {
		return errors.New("server.port is required and must be positive")
	}
	if c.Store.BaseURL == "" {
		return errors.New("store.base_url is required")
	}
	if c.Store.Collection == "" {
		return errors.New("store.collection is required")
	}
	return nil
}

func Load(path string) (*Config, error) {
	var cfg Config
	if err := loadFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	setDefaults(&cfg)

	// Env always wins over file values and defaults.
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultServerTimeout * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultServerTimeout * time.Second
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{
			"http://localhost:3000", // public site
			"http://localhost:3001", // admin frontend
		}
	}
	if cfg.Store.Collection == "" {
		cfg.Store.Collection = "listings"
	}
	if cfg.Store.Timeout == 0 {
		cfg.Store.Timeout = defaultStoreTimeout * time.Second
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = defaultRedisAddress
	}
	if cfg.Listings.PageSize == 0 {
		cfg.Listings.PageSize = defaultPageSize
	}
	if cfg.Listings.CacheTTL == 0 {
		cfg.Listings.CacheTTL = defaultCacheTTL
	}
}
