package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=9000"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	// CredentialHash selects the hasher for new identities: argon2id or bcrypt.
	CredentialHash string `env:"CREDENTIAL_HASH, default=argon2id"`
	// ConnectMaxElapsed bounds startup retries against mongo and redis.
	ConnectMaxElapsed time.Duration `env:"CONNECT_MAX_ELAPSED, default=30s"`

	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type MongoConfig struct {
	URI           string `env:"MONGO_URI,            default=mongodb://localhost:27017"`
	Database      string `env:"MONGO_DB,             default=osmand_tracker"`
	SnapshotReads bool   `env:"MONGO_SNAPSHOT_READS, default=false"`
}

type RedisConfig struct {
	Addr               string        `env:"REDIS_ADDR,           default=localhost:6379"`
	DB                 int           `env:"REDIS_DB,             default=0"`
	CredentialCacheTTL time.Duration `env:"CREDENTIAL_CACHE_TTL, default=5m"`
}

// RateLimitConfig throttles ingest per owner. PerSecond <= 0 disables it.
type RateLimitConfig struct {
	PerSecond float64 `env:"RATE_LIMIT_PER_SECOND, default=5"`
	Burst     int     `env:"RATE_LIMIT_BURST,      default=20"`
}

// Load reads an optional .env file, then configuration from environment
// variables using go-envconfig. Variables already set in the environment win
// over .env entries.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom processes configuration from an arbitrary lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.CredentialHash {
	case "argon2id", "bcrypt":
	default:
		return fmt.Errorf("config: CREDENTIAL_HASH must be argon2id or bcrypt, got %q", c.CredentialHash)
	}
	if c.RateLimit.PerSecond > 0 && c.RateLimit.Burst < 1 {
		return fmt.Errorf("config: RATE_LIMIT_BURST must be at least 1")
	}
	return nil
}

// RequireJWTSecret fails when no operator token secret is configured.
func (c *Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
