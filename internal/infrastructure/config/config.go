package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string `env:"PORT,           default=8080"`
	Env           string `env:"ENV,            default=development"`
	SessionSecret string `env:"SESSION_SECRET"`
	LogLevel      string `env:"LOG_LEVEL,      default=info"`

	// LookupTimeout bounds every call that crosses into the external
	// profile/IP stores.
	LookupTimeout time.Duration `env:"LOOKUP_TIMEOUT, default=3s"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Limiter LimiterConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=backoffice"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// LimiterConfig tunes the login rate limiter. Backend "memory" is the
// single-instance default; "redis" shares throttle state across instances and
// requires REDIS_ADDR.
type LimiterConfig struct {
	Backend        string        `env:"LIMITER_BACKEND,         default=memory"`
	MaxAttempts    int           `env:"LIMITER_MAX_ATTEMPTS,    default=5"`
	Window         time.Duration `env:"LIMITER_WINDOW,          default=15m"`
	Lockout        time.Duration `env:"LIMITER_LOCKOUT,         default=30m"`
	SweepThreshold int           `env:"LIMITER_SWEEP_THRESHOLD, default=500"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("config: SESSION_SECRET is required")
	}
	if cfg.Limiter.Backend == "redis" && cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("config: LIMITER_BACKEND=redis requires REDIS_ADDR")
	}
	return &cfg, nil
}
