package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Cache backends understood by CacheBackend.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheSQLite = "sqlite"
)

// Config holds the calculator configuration.
type Config struct {
	Port            int    `env:"PORT" envDefault:"8080"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string `env:"LOG_FORMAT" envDefault:"text"`
	OTELEndpoint    string `env:"OTEL_ENDPOINT"`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"mortgage-calculator"`

	MaxLoanAmount   float64 `env:"MAX_LOAN_AMOUNT" envDefault:"10000000"`
	MaxInterestRate float64 `env:"MAX_INTEREST_RATE" envDefault:"30"`
	MaxTermYears    int     `env:"MAX_TERM_YEARS" envDefault:"50"`
	MaxPMIRate      float64 `env:"MAX_PMI_RATE" envDefault:"5"`
	MaxScenarios    int     `env:"MAX_SCENARIOS" envDefault:"20"`

	CacheBackend string        `env:"CACHE_BACKEND" envDefault:"memory"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	RedisAddr    string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	SQLitePath   string        `env:"SQLITE_PATH"`

	RateLimitCapacity int           `env:"RATE_LIMIT_CAPACITY" envDefault:"60"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// LoadConfig reads a .env file when present and then the process
// environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration LoadConfig produces with an empty
// environment.
func Default() *Config {
	cfg := &Config{}
	_ = env.ParseWithOptions(cfg, env.Options{Environment: map[string]string{}})
	return cfg
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.CacheBackend {
	case CacheNone, CacheMemory, CacheRedis, CacheSQLite:
	default:
		return fmt.Errorf("CACHE_BACKEND: unknown backend %q", c.CacheBackend)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT: %d out of range", c.Port)
	}
	if c.MaxLoanAmount <= 0 || c.MaxInterestRate <= 0 || c.MaxTermYears <= 0 {
		return fmt.Errorf("loan limits must be positive")
	}
	if c.MaxScenarios <= 0 {
		return fmt.Errorf("MAX_SCENARIOS must be positive")
	}
	return nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
