package resourcepool

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ensurePool upserts the resource_pool row for name, failing with
// ErrTypeMismatch if it already exists with a different value type. Created
// when first grown; never destroyed by this package.
func ensurePool(ctx context.Context, ex Executor, name string, vt ValueType) error {
	var existing string
	err := ex.QueryRow(ctx, `SELECT value_type FROM resource_pool WHERE name = $1`, name).Scan(&existing)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		_, err = ex.Exec(ctx, `INSERT INTO resource_pool (name, value_type) VALUES ($1, $2)`, name, string(vt))
		if err != nil {
			return fmt.Errorf("resourcepool: create pool %q: %w", name, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("resourcepool: look up pool %q: %w", name, err)
	case existing != string(vt):
		return fmt.Errorf("%w: pool %q is %s, not %s", ErrTypeMismatch, name, existing, vt)
	default:
		return nil
	}
}

// poolValueType returns the recorded value type of a pool, or ErrPoolUnknown.
func poolValueType(ctx context.Context, ex Executor, name string) (ValueType, error) {
	var vt string
	err := ex.QueryRow(ctx, `SELECT value_type FROM resource_pool WHERE name = $1`, name).Scan(&vt)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: %q", ErrPoolUnknown, name)
	}
	if err != nil {
		return "", fmt.Errorf("resourcepool: look up pool %q: %w", name, err)
	}
	return ValueType(vt), nil
}

// Bounds returns the minimum and maximum canonical values currently stored
// for a pool, computed by a single aggregate query that casts to the pool's
// natural order (bigint for Integer, inet for Ipv4) rather than the plain
// lexicographic order a bare text MIN/MAX would give.
func Bounds(ctx context.Context, ex Executor, name string) (min, max string, err error) {
	vt, err := poolValueType(ctx, ex, name)
	if err != nil {
		return "", "", err
	}

	var query string
	switch vt {
	case ValueTypeInteger:
		query = `SELECT MIN(value::bigint)::text, MAX(value::bigint)::text FROM resource_pool_value WHERE pool_name = $1`
	case ValueTypeIpv4:
		query = `SELECT host(MIN(value::inet)), host(MAX(value::inet)) FROM resource_pool_value WHERE pool_name = $1`
	default:
		query = `SELECT MIN(value), MAX(value) FROM resource_pool_value WHERE pool_name = $1`
	}

	var minVal, maxVal *string
	if err := ex.QueryRow(ctx, query, name).Scan(&minVal, &maxVal); err != nil {
		return "", "", fmt.Errorf("resourcepool: bounds for %q: %w", name, err)
	}
	if minVal == nil || maxVal == nil {
		return "", "", nil // pool has no values yet
	}
	return *minVal, *maxVal, nil
}
