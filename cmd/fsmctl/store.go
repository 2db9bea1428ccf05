package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amp-labs/amp-fsm/store"
	"github.com/amp-labs/amp-fsm/store/memory"
	"github.com/amp-labs/amp-fsm/store/pg"
	"github.com/amp-labs/amp-fsm/store/redis"
)

var errUnknownStore = errors.New("unknown FSM_STORE")

// openStore returns the configured store, or nil when none is configured.
// Closing is registered on the shutdown handler.
func (a *app) openStore(ctx context.Context) (store.Store, error) {
	switch a.cfg.Store {
	case "":
		return nil, nil //nolint:nilnil
	case "memory":
		return memory.New(), nil
	case "redis":
		st, err := redis.New(a.cfg.RedisURL, redis.WithTTL(a.cfg.StoreTTL))
		if err != nil {
			return nil, err
		}

		if err := st.Ping(ctx); err != nil {
			_ = st.Close()

			return nil, err
		}

		a.hooks.BeforeShutdown(func(context.Context) {
			if err := st.Close(); err != nil {
				slog.Warn("failed to close redis store", "error", err)
			}
		})

		return st, nil
	case "pg", "postgres":
		pool, err := pg.Connect(ctx, a.cfg.Postgres)
		if err != nil {
			return nil, err
		}

		a.hooks.BeforeShutdown(func(context.Context) {
			pool.Close()
		})

		st, err := pg.New(pool, a.cfg.Postgres.Table)
		if err != nil {
			return nil, err
		}

		if err := st.Migrate(ctx); err != nil {
			return nil, err
		}

		return st, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownStore, a.cfg.Store)
	}
}
