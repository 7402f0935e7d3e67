package resourcepool

import (
	"context"
	"fmt"
)

// PoolStats is a snapshot of a single pool's allocation state, broken down
// by auto_assignable so callers can tell "nothing free at all" apart from
// "nothing free for auto-assign, but manual values remain" (§4.6).
type PoolStats struct {
	Used               int64
	Free               int64
	AutoAssignUsed     int64
	AutoAssignFree     int64
	NonAutoAssignUsed  int64
	NonAutoAssignFree  int64
}

// Stats computes PoolStats for a single pool with one aggregate query.
func Stats(ctx context.Context, ex Executor, pool string) (PoolStats, error) {
	if _, err := poolValueType(ctx, ex, pool); err != nil {
		return PoolStats{}, err
	}

	row := ex.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE owner_id IS NOT NULL),
			COUNT(*) FILTER (WHERE owner_id IS NULL),
			COUNT(*) FILTER (WHERE owner_id IS NOT NULL AND auto_assignable),
			COUNT(*) FILTER (WHERE owner_id IS NULL AND auto_assignable),
			COUNT(*) FILTER (WHERE owner_id IS NOT NULL AND NOT auto_assignable),
			COUNT(*) FILTER (WHERE owner_id IS NULL AND NOT auto_assignable)
		FROM resource_pool_value WHERE pool_name = $1
	`, pool)

	var s PoolStats
	if err := row.Scan(&s.Used, &s.Free, &s.AutoAssignUsed, &s.AutoAssignFree, &s.NonAutoAssignUsed, &s.NonAutoAssignFree); err != nil {
		return PoolStats{}, fmt.Errorf("resourcepool: stats for %q: %w", pool, err)
	}
	return s, nil
}

// PoolSnapshot is one row of the listing returned by All: a pool's
// identity, its value bounds, and its current stats.
type PoolSnapshot struct {
	Name      string
	ValueType ValueType
	Min       string
	Max       string
	Stats     PoolStats
}

// All returns a snapshot of every pool, ordered by name ascending.
func All(ctx context.Context, ex Executor) ([]PoolSnapshot, error) {
	rows, err := ex.Query(ctx, `SELECT name, value_type FROM resource_pool ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("resourcepool: list pools: %w", err)
	}
	defer rows.Close()

	var names []string
	var types []ValueType
	for rows.Next() {
		var name, vt string
		if err := rows.Scan(&name, &vt); err != nil {
			return nil, fmt.Errorf("resourcepool: list pools: %w", err)
		}
		names = append(names, name)
		types = append(types, ValueType(vt))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resourcepool: list pools: %w", err)
	}

	snapshots := make([]PoolSnapshot, 0, len(names))
	for i, name := range names {
		min, max, err := Bounds(ctx, ex, name)
		if err != nil {
			return nil, err
		}
		stats, err := Stats(ctx, ex, name)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, PoolSnapshot{
			Name:      name,
			ValueType: types[i],
			Min:       min,
			Max:       max,
			Stats:     stats,
		})
	}
	return snapshots, nil
}
