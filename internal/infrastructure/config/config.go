package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth   AuthConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Upload UploadConfig
}

type AuthConfig struct {
	AccessSecret  string        `env:"JWT_ACCESS_SECRET,  required"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET, required"`
	AccessTTL     time.Duration `env:"ACCESS_TOKEN_TTL,   default=15m"`
	RefreshTTL    time.Duration `env:"REFRESH_TOKEN_TTL,  default=336h"`
	ResetTTL      time.Duration `env:"RESET_TOKEN_TTL,    default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=savemate"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type UploadConfig struct {
	Dir      string `env:"UPLOAD_DIR,       default=./uploads"`
	MaxBytes int64  `env:"UPLOAD_MAX_BYTES, default=5242880"`
}

// Development reports whether the service runs in the development
// environment (reset tokens are revealed in API responses there).
func (c *Config) Development() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
