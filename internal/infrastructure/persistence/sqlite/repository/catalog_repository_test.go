package repository

import (
	"context"
	"testing"
)

func TestUpsertStatusKeepsIDAndUpdatesFlag(t *testing.T) {
	_, catalogs := setupRepositories(t)
	ctx := context.Background()

	first, err := catalogs.UpsertStatus(ctx, "Review", false)
	if err != nil {
		t.Fatalf("UpsertStatus() error = %v", err)
	}
	second, err := catalogs.UpsertStatus(ctx, "Review", true)
	if err != nil {
		t.Fatalf("UpsertStatus(again) error = %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("re-upsert changed id: %d -> %d", first.ID, second.ID)
	}
	if !second.IsClosed {
		t.Fatalf("re-upsert should update the closed flag")
	}

	statuses, err := catalogs.ListStatuses(ctx)
	if err != nil {
		t.Fatalf("ListStatuses() error = %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("statuses len = %d, want 1", len(statuses))
	}
}

func TestFindOpenAndClosedStatus(t *testing.T) {
	_, catalogs := setupRepositories(t)
	ctx := context.Background()

	if _, found, err := catalogs.FindOpenStatus(ctx); err != nil || found {
		t.Fatalf("FindOpenStatus(empty) = found %v, err %v", found, err)
	}

	if _, err := catalogs.UpsertStatus(ctx, "Open", false); err != nil {
		t.Fatalf("UpsertStatus() error = %v", err)
	}
	if _, err := catalogs.UpsertStatus(ctx, "In progress", false); err != nil {
		t.Fatalf("UpsertStatus() error = %v", err)
	}
	if _, err := catalogs.UpsertStatus(ctx, "Closed", true); err != nil {
		t.Fatalf("UpsertStatus() error = %v", err)
	}

	open, found, err := catalogs.FindOpenStatus(ctx)
	if err != nil {
		t.Fatalf("FindOpenStatus() error = %v", err)
	}
	// Lowest id wins when several qualify.
	if !found || open.Label != "Open" {
		t.Fatalf("FindOpenStatus() = %+v found=%v", open, found)
	}

	closed, found, err := catalogs.FindClosedStatus(ctx)
	if err != nil {
		t.Fatalf("FindClosedStatus() error = %v", err)
	}
	if !found || closed.Label != "Closed" || !closed.IsClosed {
		t.Fatalf("FindClosedStatus() = %+v found=%v", closed, found)
	}
}

func TestUpsertAreaUpdatesCoding(t *testing.T) {
	_, catalogs := setupRepositories(t)
	ctx := context.Background()

	first, err := catalogs.UpsertArea(ctx, "Assembly", "AS-01")
	if err != nil {
		t.Fatalf("UpsertArea() error = %v", err)
	}
	second, err := catalogs.UpsertArea(ctx, "Assembly", "AS-02")
	if err != nil {
		t.Fatalf("UpsertArea(again) error = %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("re-upsert changed id: %d -> %d", first.ID, second.ID)
	}
	if second.Coding != "AS-02" {
		t.Fatalf("coding = %q, want AS-02", second.Coding)
	}
}
