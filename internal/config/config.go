// Package config loads server settings. Values are layered, lowest
// precedence first: built-in defaults, an optional YAML file named by
// CONFIG_FILE, a .env file in the working directory, and finally the
// process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds runtime settings for the storefront server.
type Config struct {
	Port      string `yaml:"port" envconfig:"PORT"`
	PublicURL string `yaml:"public_url" envconfig:"PUBLIC_URL"`

	JWTSecret    string        `yaml:"jwt_secret" envconfig:"JWT_SECRET"`
	TokenTTL     time.Duration `yaml:"token_ttl" envconfig:"TOKEN_TTL"`
	PasswordMode string        `yaml:"password_mode" envconfig:"PASSWORD_MODE"`
	BcryptCost   int           `yaml:"bcrypt_cost" envconfig:"BCRYPT_COST"`

	StoreDriver  string `yaml:"store_driver" envconfig:"STORE_DRIVER"`
	DatabasePath string `yaml:"database_path" envconfig:"DATABASE_PATH"`
	DatabaseURL  string `yaml:"database_url" envconfig:"DATABASE_URL"`

	FileStore   string `yaml:"file_store" envconfig:"FILE_STORE"`
	S3Bucket    string `yaml:"s3_bucket" envconfig:"S3_BUCKET"`
	S3Region    string `yaml:"s3_region" envconfig:"S3_REGION"`
	S3Endpoint  string `yaml:"s3_endpoint" envconfig:"S3_ENDPOINT"`
	S3AccessKey string `yaml:"s3_access_key" envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `yaml:"s3_secret_key" envconfig:"S3_SECRET_KEY"`

	RateLimitBackend string  `yaml:"rate_limit_backend" envconfig:"RATE_LIMIT_BACKEND"`
	RateLimitRate    float64 `yaml:"rate_limit_rate" envconfig:"RATE_LIMIT_RATE"`
	RateLimitBurst   int     `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST"`
	RedisURL         string  `yaml:"redis_url" envconfig:"REDIS_URL"`

	Tracing      string `yaml:"tracing" envconfig:"TRACING"`
	OTLPEndpoint string `yaml:"otlp_endpoint" envconfig:"OTLP_ENDPOINT"`

	CORSOrigin string `yaml:"cors_origin" envconfig:"CORS_ORIGIN"`
	LogLevel   string `yaml:"log_level" envconfig:"LOG_LEVEL"`
}

const (
	PasswordModePlain  = "plain"
	PasswordModeBcrypt = "bcrypt"

	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"

	FileStoreDB = "db"
	FileStoreS3 = "s3"

	RateLimitMemory = "memory"
	RateLimitRedis  = "redis"
	RateLimitOff    = "off"

	TracingNone   = "none"
	TracingStdout = "stdout"
	TracingOTLP   = "otlp"
)

// Default returns the development defaults. JWTSecret is left empty on
// purpose and must be supplied.
func Default() *Config {
	return &Config{
		Port:             "4000",
		PasswordMode:     PasswordModePlain,
		BcryptCost:       12,
		StoreDriver:      StoreSQLite,
		DatabasePath:     "storefront.db",
		FileStore:        FileStoreDB,
		S3Region:         "us-east-1",
		RateLimitBackend: RateLimitMemory,
		RateLimitRate:    1,
		RateLimitBurst:   10,
		Tracing:          TracingNone,
		CORSOrigin:       "*",
		LogLevel:         "info",
	}
}

// Load builds a Config from all layers and validates it.
func Load() (*Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if cfg.PublicURL == "" {
		cfg.PublicURL = "http://localhost:" + cfg.Port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate rejects missing secrets and unknown or incomplete backend choices.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	if c.TokenTTL < 0 {
		return errors.New("TOKEN_TTL must not be negative")
	}

	switch c.PasswordMode {
	case PasswordModePlain:
	case PasswordModeBcrypt:
		if c.BcryptCost < 4 || c.BcryptCost > 14 {
			return fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost)
		}
	default:
		return fmt.Errorf("unknown PASSWORD_MODE %q", c.PasswordMode)
	}

	switch c.StoreDriver {
	case StoreSQLite:
		if c.DatabasePath == "" {
			return errors.New("DATABASE_PATH is required for the sqlite store")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.FileStore {
	case FileStoreDB:
	case FileStoreS3:
		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET is required for the s3 file store")
		}
	default:
		return fmt.Errorf("unknown FILE_STORE %q", c.FileStore)
	}

	switch c.RateLimitBackend {
	case RateLimitOff:
	case RateLimitMemory, RateLimitRedis:
		if c.RateLimitRate < 0 || c.RateLimitBurst < 1 {
			return errors.New("RATE_LIMIT_RATE must be >= 0 and RATE_LIMIT_BURST >= 1")
		}
		if c.RateLimitBackend == RateLimitRedis && c.RedisURL == "" {
			return errors.New("REDIS_URL is required for the redis rate limiter")
		}
	default:
		return fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", c.RateLimitBackend)
	}

	switch c.Tracing {
	case TracingNone, TracingStdout:
	case TracingOTLP:
		if c.OTLPEndpoint == "" {
			return errors.New("OTLP_ENDPOINT is required for otlp tracing")
		}
	default:
		return fmt.Errorf("unknown TRACING %q", c.Tracing)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}
