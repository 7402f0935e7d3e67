package resourcepool

import (
	"context"
	"errors"
	"testing"
)

func TestEnsurePoolCreatesAndIsIdempotent(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	if err := ensurePool(ctx, pool, "p1", ValueTypeInteger); err != nil {
		t.Fatalf("ensurePool: %v", err)
	}
	if err := ensurePool(ctx, pool, "p1", ValueTypeInteger); err != nil {
		t.Fatalf("ensurePool (repeat): %v", err)
	}

	vt, err := poolValueType(ctx, pool, "p1")
	if err != nil {
		t.Fatalf("poolValueType: %v", err)
	}
	if vt != ValueTypeInteger {
		t.Fatalf("expected integer, got %s", vt)
	}
}

func TestEnsurePoolRejectsTypeMismatch(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	if err := ensurePool(ctx, pool, "p1", ValueTypeInteger); err != nil {
		t.Fatalf("ensurePool: %v", err)
	}
	err := ensurePool(ctx, pool, "p1", ValueTypeIpv4)
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestPoolValueTypeUnknown(t *testing.T) {
	pool := newTestPool(t)
	_, err := poolValueType(context.Background(), pool, "nope")
	if !errors.Is(err, ErrPoolUnknown) {
		t.Fatalf("expected ErrPoolUnknown, got %v", err)
	}
}

func TestBounds(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	if err := Populate(ctx, pool, "p1", ValueTypeInteger, []string{"5", "1", "9", "3"}, true); err != nil {
		t.Fatalf("Populate: %v", err)
	}

	min, max, err := Bounds(ctx, pool, "p1")
	if err != nil {
		t.Fatalf("Bounds: %v", err)
	}
	if min != "1" || max != "9" {
		t.Fatalf("expected bounds 1,9 got %s,%s", min, max)
	}
}

func TestBoundsEmptyPool(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	if err := ensurePool(ctx, pool, "empty", ValueTypeInteger); err != nil {
		t.Fatalf("ensurePool: %v", err)
	}
	min, max, err := Bounds(ctx, pool, "empty")
	if err != nil {
		t.Fatalf("Bounds: %v", err)
	}
	if min != "" || max != "" {
		t.Fatalf("expected empty bounds for empty pool, got %q,%q", min, max)
	}
}
