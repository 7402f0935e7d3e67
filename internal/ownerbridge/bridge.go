// Package ownerbridge ties resource pool allocation to the lifecycle of the
// entities that hold resources — VPCs getting a VNI on create and losing it
// on delete, machines getting an address, and so on. It is the thing a gRPC
// handler or CLI command calls; it never opens a transaction itself, same as
// resourcepool, so it composes into whatever ambient transaction the caller
// is already running.
package ownerbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oriys/nova/internal/resourcepool"
)

var ErrOwnerNotFound = errors.New("ownerbridge: owner not found")

// Holdings maps pool name to the value that owner currently holds in it.
// An owner can hold at most one value per pool.
type Holdings map[string]string

// Assign allocates one value from pool for owner, recording the holding
// against the owner row so Release can find it again later without the
// caller having to remember which value was issued. If owner already holds
// a value in pool, Assign returns it unchanged rather than allocating a
// second one — assign is idempotent per (ownerType, ownerID, pool).
func Assign(ctx context.Context, ex resourcepool.Executor, ownerType resourcepool.OwnerType, ownerID, pool string, requested *string) (string, error) {
	holdings, err := loadHoldings(ctx, ex, ownerType, ownerID)
	if err != nil {
		return "", err
	}
	if existing, ok := holdings[pool]; ok {
		return existing, nil
	}

	value, err := resourcepool.Allocate(ctx, ex, pool, ownerType, ownerID, requested)
	if err != nil {
		return "", err
	}

	holdings[pool] = value
	if err := storeHoldings(ctx, ex, ownerType, ownerID, holdings); err != nil {
		return "", err
	}
	return value, nil
}

// Release frees every value the owner holds and deletes its holdings row.
//
// Calling Release a second time on an owner that was already deleted fails
// with ErrOwnerNotFound and releases nothing — critically, it must NOT
// re-release the values that were in the deleted owner's holdings, because
// by the time of the second delete those values may already have been
// reassigned to a different owner (the allocator has no way to tell "still
// held by the owner I remember" from "held by someone new" once the
// holdings row is gone, so the holdings row's presence is the only signal).
func Release(ctx context.Context, ex resourcepool.Executor, ownerType resourcepool.OwnerType, ownerID string) error {
	holdings, err := loadHoldingsStrict(ctx, ex, ownerType, ownerID)
	if err != nil {
		return err
	}

	for pool, value := range holdings {
		if err := resourcepool.Release(ctx, ex, pool, value); err != nil && !errors.Is(err, resourcepool.ErrNotAllocated) {
			return err
		}
	}

	_, err = ex.Exec(ctx, `DELETE FROM resource_owner WHERE owner_type = $1 AND owner_id = $2`, string(ownerType), ownerID)
	if err != nil {
		return fmt.Errorf("ownerbridge: delete owner %s/%s: %w", ownerType, ownerID, err)
	}
	return nil
}

// HoldingsOf returns a snapshot of what owner currently holds, or an empty
// map if the owner has never been assigned anything.
func HoldingsOf(ctx context.Context, ex resourcepool.Executor, ownerType resourcepool.OwnerType, ownerID string) (Holdings, error) {
	return loadHoldings(ctx, ex, ownerType, ownerID)
}

func loadHoldings(ctx context.Context, ex resourcepool.Executor, ownerType resourcepool.OwnerType, ownerID string) (Holdings, error) {
	var raw []byte
	err := ex.QueryRow(ctx, `
		SELECT holdings FROM resource_owner WHERE owner_type = $1 AND owner_id = $2
	`, string(ownerType), ownerID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return Holdings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ownerbridge: load holdings for %s/%s: %w", ownerType, ownerID, err)
	}
	holdings := Holdings{}
	if err := json.Unmarshal(raw, &holdings); err != nil {
		return nil, fmt.Errorf("ownerbridge: decode holdings for %s/%s: %w", ownerType, ownerID, err)
	}
	return holdings, nil
}

// loadHoldingsStrict is loadHoldings but fails ErrOwnerNotFound when the
// owner row is absent, for Release — where "never existed" and "already
// deleted" must be rejected rather than silently treated as a no-op.
func loadHoldingsStrict(ctx context.Context, ex resourcepool.Executor, ownerType resourcepool.OwnerType, ownerID string) (Holdings, error) {
	var raw []byte
	err := ex.QueryRow(ctx, `
		SELECT holdings FROM resource_owner WHERE owner_type = $1 AND owner_id = $2
	`, string(ownerType), ownerID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", ErrOwnerNotFound, ownerType, ownerID)
	}
	if err != nil {
		return nil, fmt.Errorf("ownerbridge: load holdings for %s/%s: %w", ownerType, ownerID, err)
	}
	holdings := Holdings{}
	if err := json.Unmarshal(raw, &holdings); err != nil {
		return nil, fmt.Errorf("ownerbridge: decode holdings for %s/%s: %w", ownerType, ownerID, err)
	}
	return holdings, nil
}

func storeHoldings(ctx context.Context, ex resourcepool.Executor, ownerType resourcepool.OwnerType, ownerID string, holdings Holdings) error {
	raw, err := json.Marshal(holdings)
	if err != nil {
		return fmt.Errorf("ownerbridge: encode holdings for %s/%s: %w", ownerType, ownerID, err)
	}
	_, err = ex.Exec(ctx, `
		INSERT INTO resource_owner (owner_type, owner_id, holdings)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_type, owner_id) DO UPDATE SET holdings = EXCLUDED.holdings
	`, string(ownerType), ownerID, raw)
	if err != nil {
		return fmt.Errorf("ownerbridge: store holdings for %s/%s: %w", ownerType, ownerID, err)
	}
	return nil
}
