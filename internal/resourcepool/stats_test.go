package resourcepool

import (
	"context"
	"testing"
)

func TestStatsBreakdownByAutoAssignable(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	if err := Populate(ctx, pool, "p1", ValueTypeInteger, []string{"1", "2"}, true); err != nil {
		t.Fatalf("Populate: %v", err)
	}
	if err := Populate(ctx, pool, "p1", ValueTypeInteger, []string{"3"}, false); err != nil {
		t.Fatalf("Populate: %v", err)
	}

	if _, err := Allocate(ctx, pool, "p1", OwnerTypeVpc, "owner-a", nil); err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	stats, err := Stats(ctx, pool, "p1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Used != 1 || stats.Free != 2 {
		t.Fatalf("expected used=1 free=2, got %+v", stats)
	}
	if stats.AutoAssignUsed != 1 || stats.AutoAssignFree != 1 {
		t.Fatalf("expected auto used=1 free=1, got %+v", stats)
	}
	if stats.NonAutoAssignUsed != 0 || stats.NonAutoAssignFree != 1 {
		t.Fatalf("expected manual used=0 free=1, got %+v", stats)
	}
}

func TestAllIsOrderedByNameAndIsolatesPools(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	if err := Populate(ctx, pool, "c", ValueTypeInteger, []string{"1"}, true); err != nil {
		t.Fatalf("Populate: %v", err)
	}
	if err := Populate(ctx, pool, "a", ValueTypeInteger, []string{"1", "2"}, true); err != nil {
		t.Fatalf("Populate: %v", err)
	}
	if err := Populate(ctx, pool, "b", ValueTypeInteger, []string{"1", "2", "3"}, true); err != nil {
		t.Fatalf("Populate: %v", err)
	}

	if _, err := Allocate(ctx, pool, "b", OwnerTypeVpc, "owner-a", nil); err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	snapshots, err := All(ctx, pool)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(snapshots) != 3 {
		t.Fatalf("expected 3 pools, got %d", len(snapshots))
	}
	names := []string{snapshots[0].Name, snapshots[1].Name, snapshots[2].Name}
	if names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Fatalf("expected pools ordered a,b,c, got %v", names)
	}
	for _, snap := range snapshots {
		if snap.Name != "b" && snap.Stats.Used != 0 {
			t.Fatalf("pool %q should be untouched by allocation against pool b, got %+v", snap.Name, snap.Stats)
		}
	}
}
