package resourcepool

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the resource pool and owner tables if they don't
// already exist. It is called once from store.NewPostgresStore; these are
// the only tables this repository owns.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS resource_pool (
			name       TEXT PRIMARY KEY,
			value_type TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS resource_pool_value (
			pool_name       TEXT NOT NULL REFERENCES resource_pool(name),
			value           TEXT NOT NULL,
			auto_assignable BOOLEAN NOT NULL,
			owner_type      TEXT,
			owner_id        TEXT,
			allocated_at    TIMESTAMPTZ,
			UNIQUE (pool_name, value)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_resource_pool_value_free
			ON resource_pool_value (pool_name, auto_assignable)
			WHERE owner_id IS NULL`,
		`CREATE TABLE IF NOT EXISTS resource_owner (
			owner_type TEXT NOT NULL,
			owner_id   TEXT NOT NULL,
			holdings   JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (owner_type, owner_id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("resourcepool: ensure schema: %w", err)
		}
	}
	return nil
}
