package cache

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OpenOptions selects and configures a backend.
type OpenOptions struct {
	Backend   string
	Pool      *pgxpool.Pool
	RedisAddr string
	Logger    *log.Logger
}

// Open returns the Store for opts.Backend and a func releasing what it
// created. The Postgres pool stays owned by the caller.
func Open(ctx context.Context, opts OpenOptions) (Store, func(), error) {
	switch opts.Backend {
	case "", BackendMemory:
		m, err := NewMemory(0)
		if err != nil {
			return nil, nil, err
		}
		return m, m.Close, nil
	case BackendPostgres:
		if opts.Pool == nil {
			return nil, nil, ErrUnknownBackend("postgres (no pool)")
		}
		return NewPostgres(opts.Pool, opts.Logger), func() {}, nil
	case BackendRedis:
		pool := NewRedisPool(opts.RedisAddr)
		r := NewRedis(pool)
		if err := r.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return r, func() { pool.Close() }, nil
	default:
		return nil, nil, ErrUnknownBackend(opts.Backend)
	}
}
