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

	// ClientOrigin is the single frontend origin allowed by CORS.
	ClientOrigin string `env:"CLIENT_ORIGIN, default=http://localhost:5173"`

	JWT   JWTConfig
	Hash  HashConfig
	Mongo MongoConfig
	Redis RedisConfig
	OAuth OAuthConfig
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET, required"`
	TTL    time.Duration `env:"JWT_TTL,    default=1h"`
}

type HashConfig struct {
	// Cost is the bcrypt work factor; the default targets ~100ms per hash.
	Cost int `env:"BCRYPT_COST,     default=12"`
	// MaxConcurrent caps in-flight hash computations; 0 means GOMAXPROCS.
	MaxConcurrent int `env:"HASH_WORKERS, default=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=lecas"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type OAuthConfig struct {
	ClientID     string `env:"OAUTH_CLIENT_ID,     required"`
	ClientSecret string `env:"OAUTH_CLIENT_SECRET, required"`
	CallbackURL  string `env:"OAUTH_CALLBACK_URL,  required"`

	// Frontend destinations the callback redirects to. The success URL
	// receives the issued token as a query parameter; the failure URL
	// receives nothing.
	SuccessRedirect string `env:"OAUTH_SUCCESS_REDIRECT, default=http://localhost:5173/auth/success"`
	FailureRedirect string `env:"OAUTH_FAILURE_REDIRECT, default=http://localhost:5173/auth/failed"`
}

// Load reads configuration from environment variables using go-envconfig.
// Absence of a required secret is startup-fatal.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
