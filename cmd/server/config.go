package main

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the server's environment-driven configuration. A .env file in
// the working directory is loaded first when present.
type Config struct {
	GRPCPort             int           `env:"GRPC_PORT" envDefault:"50051"`
	RedisAddress         string        `env:"REDIS_ADDRESS" envDefault:"localhost:6379"`
	RedisPoolSize        int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RedisMinIdleConns    int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	RedisConnMaxIdleTime time.Duration `env:"REDIS_CONN_MAX_IDLE_TIME" envDefault:"5m"`
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SlogLevel maps the configured level name onto slog's levels, defaulting
// to info for unknown names.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
