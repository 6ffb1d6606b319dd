package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/sophialaurans/stockly-go/pkg/config"
	"github.com/sophialaurans/stockly-go/pkg/database"
)

// Config holds all configuration for the stockly service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"stockly"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"stockly_secret"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"stockly"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// Redis (draft session store)
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Draft TTL in hours (default: 3 days). Drafts are session state, never archived.
	DraftTTL int `env:"DRAFT_TTL_HOURS" envDefault:"72"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Auth
	JWTSecret        string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	AccessTokenMins  int    `env:"ACCESS_TOKEN_MINUTES" envDefault:"15"`
	RefreshTokenMins int    `env:"REFRESH_TOKEN_MINUTES" envDefault:"10080"`

	// Optional upstream fulfillment endpoint. Empty disables the relay.
	UpstreamURL string `env:"UPSTREAM_URL" envDefault:""`

	// Rate limiting
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"100"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load stockly config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.DraftTTL < 1 {
		return fmt.Errorf("invalid draft TTL: %d", c.DraftTTL)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT secret must not be empty")
	}
	return nil
}

// PostgresConfig builds the pool configuration from the environment values.
func (c *Config) PostgresConfig() database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.PostgresHost
	pg.Port = c.PostgresPort
	pg.User = c.PostgresUser
	pg.Password = c.PostgresPassword
	pg.DBName = c.PostgresDB
	pg.SSLMode = c.PostgresSSLMode
	return pg
}

// RedisConfig builds the Redis client configuration from the environment values.
func (c *Config) RedisConfig() database.RedisConfig {
	rd := database.DefaultRedisConfig()
	rd.Host = c.RedisHost
	rd.Port = c.RedisPort
	rd.Password = c.RedisPass
	rd.DB = c.RedisDB
	return rd
}

// DraftTTLDuration returns the draft TTL as a duration.
func (c *Config) DraftTTLDuration() time.Duration {
	return time.Duration(c.DraftTTL) * time.Hour
}

// AccessTokenExpiry returns the access token lifetime.
func (c *Config) AccessTokenExpiry() time.Duration {
	return time.Duration(c.AccessTokenMins) * time.Minute
}

// RefreshTokenExpiry returns the refresh token lifetime.
func (c *Config) RefreshTokenExpiry() time.Duration {
	return time.Duration(c.RefreshTokenMins) * time.Minute
}
