package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/amp-labs/amp-fsm/store/pg"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration read from the environment and an
// optional .env file.
type Config struct {
	// Store selects where played documents are persisted: memory, redis or pg.
	Store string `env:"FSM_STORE"`
	// RedisURL is used when Store is redis.
	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	// StoreTTL expires Redis records; zero keeps them.
	StoreTTL time.Duration `env:"FSM_STORE_TTL" envDefault:"0"`
	// Postgres is used when Store is pg.
	Postgres pg.Config
}

func loadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	return parseConfig()
}

func parseConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}
