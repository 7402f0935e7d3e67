package resourcepool

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oriys/nova/internal/logging"
	"github.com/oriys/nova/internal/metrics"
)

// OwnerType names the kind of entity holding an allocation. The set here
// covers the owner-lifecycle operations this repository's control plane
// ties to the allocator (§4.7); it is not closed — new owner kinds are just
// new strings, since the allocator never branches on OwnerType itself.
type OwnerType string

const (
	OwnerTypeMachine        OwnerType = "machine"
	OwnerTypeVpc            OwnerType = "vpc"
	OwnerTypeInstance       OwnerType = "instance"
	OwnerTypeNetworkSegment OwnerType = "network_segment"
)

// valueOrderExpr returns the SQL expression to ORDER BY so that candidate
// rows are visited in the type's natural order rather than plain text order.
func valueOrderExpr(vt ValueType) string {
	switch vt {
	case ValueTypeInteger:
		return "value::bigint"
	case ValueTypeIpv4:
		return "value::inet"
	default:
		return "value"
	}
}

// Allocate hands out one value from pool to (ownerType, ownerID).
//
// With requested == nil (the auto path), it selects the lowest free
// auto-assignable value using SELECT ... FOR UPDATE SKIP LOCKED, so two
// concurrent allocators against the same pool never contend on the same
// candidate row. With requested set (the manual path), it takes a plain
// (blocking) row lock on that specific value — auto_assignable is
// irrelevant on this path — and fails Conflict if it's already held or
// NotFound if it doesn't exist in the pool.
func Allocate(ctx context.Context, ex Executor, pool string, ownerType OwnerType, ownerID string, requested *string) (string, error) {
	vt, err := poolValueType(ctx, ex, pool)
	if err != nil {
		return "", err
	}
	if requested != nil {
		return allocateManual(ctx, ex, pool, ownerType, ownerID, *requested)
	}
	return allocateAuto(ctx, ex, pool, vt, ownerType, ownerID)
}

func allocateAuto(ctx context.Context, ex Executor, pool string, vt ValueType, ownerType OwnerType, ownerID string) (string, error) {
	query := fmt.Sprintf(`
		UPDATE resource_pool_value
		SET owner_type = $2, owner_id = $3, allocated_at = now()
		WHERE pool_name = $1 AND value = (
			SELECT value FROM resource_pool_value
			WHERE pool_name = $1 AND auto_assignable = true AND owner_id IS NULL
			ORDER BY %s ASC
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING value
	`, valueOrderExpr(vt))

	var value string
	err := ex.QueryRow(ctx, query, pool, string(ownerType), ownerID).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		logging.Op().Warn("resource pool exhausted", "pool", pool, "owner_type", ownerType, "owner_id", ownerID)
		metrics.RecordPoolAllocation(pool, "empty")
		return "", fmt.Errorf("%w: pool %q has no free auto-assignable values", ErrEmpty, pool)
	}
	if err != nil {
		return "", fmt.Errorf("resourcepool: auto allocate from %q: %w", pool, err)
	}
	logging.Op().Info("resource allocated", "pool", pool, "value", value, "owner_type", ownerType, "owner_id", ownerID)
	metrics.RecordPoolAllocation(pool, "ok")
	return value, nil
}

func allocateManual(ctx context.Context, ex Executor, pool string, ownerType OwnerType, ownerID, requested string) (string, error) {
	var existingOwner *string
	err := ex.QueryRow(ctx, `
		SELECT owner_id FROM resource_pool_value WHERE pool_name = $1 AND value = $2 FOR UPDATE
	`, pool, requested).Scan(&existingOwner)
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.RecordPoolAllocation(pool, "not_found")
		return "", fmt.Errorf("%w: %q not in pool %q", ErrNotFound, requested, pool)
	}
	if err != nil {
		return "", fmt.Errorf("resourcepool: manual allocate %q from %q: %w", requested, pool, err)
	}
	if existingOwner != nil {
		metrics.RecordPoolAllocation(pool, "conflict")
		return "", fmt.Errorf("%w: %q already allocated in pool %q", ErrConflict, requested, pool)
	}

	_, err = ex.Exec(ctx, `
		UPDATE resource_pool_value SET owner_type = $3, owner_id = $4, allocated_at = now()
		WHERE pool_name = $1 AND value = $2
	`, pool, requested, string(ownerType), ownerID)
	if err != nil {
		return "", fmt.Errorf("resourcepool: manual allocate %q from %q: %w", requested, pool, err)
	}
	logging.Op().Info("resource allocated", "pool", pool, "value", requested, "owner_type", ownerType, "owner_id", ownerID)
	metrics.RecordPoolAllocation(pool, "ok")
	return requested, nil
}

// Release frees an allocated value. If the value currently has no
// allocation — either because it was never held or because it was already
// released — Release fails with ErrNotAllocated rather than silently
// succeeding, per §3 invariant 5.
func Release(ctx context.Context, ex Executor, pool, value string) error {
	ct, err := ex.Exec(ctx, `
		UPDATE resource_pool_value
		SET owner_type = NULL, owner_id = NULL, allocated_at = NULL
		WHERE pool_name = $1 AND value = $2 AND owner_id IS NOT NULL
	`, pool, value)
	if err != nil {
		return fmt.Errorf("resourcepool: release %q from %q: %w", value, pool, err)
	}
	if ct.RowsAffected() == 0 {
		metrics.RecordPoolRelease(pool, "not_allocated")
		return fmt.Errorf("%w: %q in pool %q", ErrNotAllocated, value, pool)
	}
	logging.Op().Info("resource released", "pool", pool, "value", value)
	metrics.RecordPoolRelease(pool, "ok")
	return nil
}
