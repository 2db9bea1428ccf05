package pg

import "time"

// Config is loaded from the environment with caarlos0/env.
type Config struct {
	// ConnectionString is the connection string to the database.
	ConnectionString string `env:"DATABASE_URL"`
	// MaxOpenConns is the maximum number of open connections.
	MaxOpenConns int32 `env:"PG_MAX_OPEN_CONNS" envDefault:"4"`
	// RetryAttempts is the number of attempts to connect.
	RetryAttempts int `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
	// RetryInterval is the base wait between attempts.
	RetryInterval time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"1s"`
	// Table holds the state records.
	Table string `env:"PG_STATE_TABLE" envDefault:"fsm_states"`
}
