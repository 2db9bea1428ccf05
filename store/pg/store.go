// Package pg stores entity states in PostgreSQL, one row per entity.
package pg

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/amp-labs/amp-fsm/fsm"
	"github.com/amp-labs/amp-fsm/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrEmptyConnectionString    = errors.New("empty postgres connection string, use DATABASE_URL env var")
	ErrFailedToParseDBConfig    = errors.New("failed to parse db config")
	ErrFailedToOpenDBConnection = errors.New("failed to open db connection")
	ErrInvalidTable             = errors.New("invalid table name")
)

var tableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// DB is the subset of *pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements store.Store on a table keyed by (class, id).
type Store struct {
	db    DB
	table string
}

var _ store.Store = (*Store)(nil)

// New creates a store on db using table (fsm_states when empty).
func New(db DB, table string) (*Store, error) {
	if table == "" {
		table = "fsm_states"
	}

	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}

	return &Store{db: db, table: table}, nil
}

// Connect establishes a connection pool, retrying with a linear backoff.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	if cfg.ConnectionString == "" {
		return nil, ErrEmptyConnectionString
	}

	connConfig, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}

	if cfg.MaxOpenConns > 0 {
		connConfig.MaxConns = cfg.MaxOpenConns
	}

	attempts := max(cfg.RetryAttempts, 1)

	for i := range attempts {
		pool, err := pgxpool.NewWithConfig(ctx, connConfig)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}

			pool.Close()
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToOpenDBConnection, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}

	return nil, ErrFailedToOpenDBConnection
}

// Migrate creates the state table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	class      TEXT        NOT NULL,
	id         TEXT        NOT NULL,
	state      TEXT        NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (class, id)
)`, s.table))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", s.table, err)
	}

	return nil
}

// Save upserts the record.
func (s *Store) Save(ctx context.Context, record store.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (class, id, state, updated_at) VALUES ($1, $2, $3, $4)
ON CONFLICT (class, id) DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at`, s.table)

	if _, err := s.db.Exec(ctx, query, record.Class, record.ID, string(record.State), record.UpdatedAt); err != nil {
		return fmt.Errorf("failed to save to postgres: %w", err)
	}

	return nil
}

// Load retrieves a record.
func (s *Store) Load(ctx context.Context, class, id string) (store.Record, error) {
	query := fmt.Sprintf(`SELECT state, updated_at FROM %s WHERE class = $1 AND id = $2`, s.table)

	record := store.Record{Class: class, ID: id}

	var state string

	if err := s.db.QueryRow(ctx, query, class, id).Scan(&state, &record.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Record{}, store.ErrNotFound
		}

		return store.Record{}, fmt.Errorf("failed to load from postgres: %w", err)
	}

	record.State = fsm.State(state)

	return record, nil
}
