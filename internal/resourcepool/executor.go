package resourcepool

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Executor is the subset of pgx's query surface that both *pgxpool.Pool and
// pgx.Tx satisfy. Every operation in this package takes one, so the caller
// decides whether a call participates in an ambient transaction (pass a
// pgx.Tx obtained from their own BeginTx) or runs against the pool directly
// for a one-off snapshot read (Stats, All). The package itself never calls
// Begin, Commit, or Rollback — per the allocator's concurrency protocol,
// rollback fidelity is the store's job, not ours.
type Executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
