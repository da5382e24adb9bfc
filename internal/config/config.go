// Package config loads service settings from an optional .env file and the
// process environment.
package config

import (
	"fmt"
	"net"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	StorageFile     = "file"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Password hashing modes accepted by PASSWORD_HASHING.
const (
	HashingPlaintext = "plaintext"
	HashingBcrypt    = "bcrypt"
)

// Config holds every setting the service reads at startup.
type Config struct {
	AppHost   string `env:"APP_HOST" envDefault:"localhost"`
	AppPort   string `env:"APP_PORT" envDefault:"2000"`
	LogLevel  string `env:"APP_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"APP_LOG_FORMAT" envDefault:"json"`
	StaticDir string `env:"APP_STATIC_DIR" envDefault:"public"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"file"`
	UsersFile      string `env:"USERS_FILE" envDefault:"users.json"`

	PasswordHashing   string `env:"PASSWORD_HASHING" envDefault:"plaintext"`
	PasswordMinLength int    `env:"PASSWORD_MIN_LENGTH" envDefault:"6"`

	Postgres Postgres
	Redis    Redis
	Kafka    Kafka
}

// Postgres configures the PostgreSQL document store.
type Postgres struct {
	Host         string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port         int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User         string `env:"POSTGRES_USER" envDefault:"user"`
	Password     string `env:"POSTGRES_PASSWORD" envDefault:"password"`
	DB           string `env:"POSTGRES_DB" envDefault:"database"`
	MaxOpenConns int    `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"16"`
	MaxIdleConns int    `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"8"`
	Document     string `env:"POSTGRES_DOCUMENT" envDefault:"users"`
}

// DSN returns the pgx connection string.
func (p Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		p.User, p.Password, p.Host, p.Port, p.DB)
}

// Redis configures the Redis document store.
type Redis struct {
	Host         string `env:"REDIS_HOST" envDefault:"localhost"`
	Port         int    `env:"REDIS_PORT" envDefault:"6379"`
	DB           int    `env:"REDIS_DB" envDefault:"0"`
	Password     string `env:"REDIS_PASSWORD"`
	PoolSize     int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	Key          string `env:"REDIS_KEY" envDefault:"users"`
}

// Addr returns host:port.
func (r Redis) Addr() string {
	return net.JoinHostPort(r.Host, fmt.Sprint(r.Port))
}

// Kafka configures registration event publishing. Empty Brokers disables it.
type Kafka struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_TOPIC" envDefault:"user-registered"`
}

// Enabled reports whether at least one broker is configured.
func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.AppHost, c.AppPort)
}

// Load reads the .env file at path (a missing file is not an error),
// then parses the environment into a Config and validates it.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(path)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageFile:
		if c.UsersFile == "" {
			return fmt.Errorf("USERS_FILE must be set for the %s backend", StorageFile)
		}
	case StorageMemory, StoragePostgres, StorageRedis:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	switch c.PasswordHashing {
	case HashingPlaintext, HashingBcrypt:
	default:
		return fmt.Errorf("unknown PASSWORD_HASHING %q", c.PasswordHashing)
	}

	if c.PasswordMinLength < 0 {
		return fmt.Errorf("PASSWORD_MIN_LENGTH must not be negative, got %d", c.PasswordMinLength)
	}
	return nil
}
