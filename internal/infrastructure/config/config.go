package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	// Workers sizes the notification dispatcher pool.
	Workers int `env:"NOTIFICATION_WORKERS, default=8"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Stripe StripeConfig
	Media  MediaConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=marketplace"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type StripeConfig struct {
	SecretKey string `env:"STRIPE_SECRET_KEY"`
	Currency  string `env:"STRIPE_CURRENCY, default=usd"`
}

type MediaConfig struct {
	Bucket     string        `env:"MEDIA_BUCKET"`
	Region     string        `env:"AWS_REGION, default=us-east-1"`
	PresignTTL time.Duration `env:"MEDIA_PRESIGN_TTL, default=15m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
