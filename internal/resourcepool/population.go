package resourcepool

import (
	"context"
	"fmt"
)

// Populate inserts values into a pool, creating the pool's registry entry
// if this is the first time it's been grown. Behavior per §4.4:
//
//   - Duplicates within values are deduplicated in order; first occurrence wins.
//   - Duplicates against already-stored values are silently ignored (idempotent re-grow).
//   - If a value already exists with a different auto_assignable flag, the
//     existing row is preserved unchanged — the first classification wins.
//
// Populate runs entirely against ex, so it is rolled back with the caller's
// transaction if ex is a pgx.Tx.
func Populate(ctx context.Context, ex Executor, pool string, vt ValueType, values []string, autoAssignable bool) error {
	if err := ensurePool(ctx, ex, pool, vt); err != nil {
		return err
	}

	seen := make(map[string]bool, len(values))
	dedup := make([]string, 0, len(values))
	for _, v := range values {
		if err := Decode(v, vt); err != nil {
			return err
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		dedup = append(dedup, v)
	}
	if len(dedup) == 0 {
		return nil
	}

	_, err := ex.Exec(ctx, `
		INSERT INTO resource_pool_value (pool_name, value, auto_assignable)
		SELECT $1, v, $3 FROM unnest($2::text[]) AS v
		ON CONFLICT (pool_name, value) DO NOTHING
	`, pool, dedup, autoAssignable)
	if err != nil {
		return fmt.Errorf("resourcepool: populate %q: %w", pool, err)
	}
	return nil
}
