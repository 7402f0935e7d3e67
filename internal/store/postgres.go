// Package store owns the Postgres connection pool that the resource pool
// allocator and owner bridge run their queries against. It is intentionally
// thin: every piece of actual persistence logic — schema, queries,
// transactions — lives in internal/resourcepool and internal/ownerbridge,
// which take a pgx Executor (pool or tx) rather than depending on this
// package. PostgresStore's only job is opening the pool, checking
// connectivity, and running EnsureSchema once at startup.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oriys/nova/internal/resourcepool"
)

// PostgresStore owns the pgxpool connection used by every resource pool and
// owner bridge operation.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore opens a connection pool against dsn, verifies
// connectivity, and ensures the resource pool tables exist.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	s := &PostgresStore{pool: pool}

	if err := s.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if err := resourcepool.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Pool exposes the underlying connection pool so callers like the
// resourcepool and ownerbridge CLI commands can run pool operations
// directly against it, or open an ambient transaction that both a store
// method and a resourcepool operation participate in.
func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if s.pool == nil {
		return fmt.Errorf("postgres not initialized")
	}
	return s.pool.Ping(ctx)
}
