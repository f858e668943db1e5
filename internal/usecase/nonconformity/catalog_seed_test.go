package nonconformity

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const testSeedTOML = `
[[statuses]]
label = "Open"

[[statuses]]
label = "In progress"

[[statuses]]
label = "Cerrada"

[[statuses]]
label = "Archived"
is_closed = true

[[severities]]
label = "Minor"

[[severities]]
label = "Major"

[[categories]]
label = "Process"

[[areas]]
label = "Assembly"
coding = "AS-01"
`

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	return path
}

func TestSeedCatalogsUpsertsVocabulary(t *testing.T) {
	svc, _, _ := setupServiceWithDB(t)
	ctx := context.Background()

	path := writeSeedFile(t, testSeedTOML)

	result, err := svc.SeedCatalogs(ctx, path)
	if err != nil {
		t.Fatalf("SeedCatalogs() error = %v", err)
	}
	if result.Statuses != 4 || result.Severities != 2 || result.Categories != 1 || result.Areas != 1 {
		t.Fatalf("SeedCatalogs() result = %+v", result)
	}

	listing, err := svc.ListCatalogs(ctx)
	if err != nil {
		t.Fatalf("ListCatalogs() error = %v", err)
	}
	if len(listing.Statuses) != 4 {
		t.Fatalf("statuses len = %d", len(listing.Statuses))
	}

	// Entries without an explicit flag fall back to the label keyword
	// heuristic; "Archived" is closed only because the file says so.
	closedByLabel := map[string]bool{}
	for _, status := range listing.Statuses {
		closedByLabel[status.Label] = status.IsClosed
	}
	if closedByLabel["Open"] || closedByLabel["In progress"] {
		t.Fatalf("open statuses misclassified: %+v", closedByLabel)
	}
	if !closedByLabel["Cerrada"] {
		t.Fatalf("legacy keyword label should default to closed")
	}
	if !closedByLabel["Archived"] {
		t.Fatalf("explicit is_closed flag should win")
	}

	if len(listing.Areas) != 1 || listing.Areas[0].Coding != "AS-01" {
		t.Fatalf("areas = %+v", listing.Areas)
	}

	// Re-seeding is idempotent: same labels, same row count.
	if _, err := svc.SeedCatalogs(ctx, path); err != nil {
		t.Fatalf("SeedCatalogs(again) error = %v", err)
	}
	listing, err = svc.ListCatalogs(ctx)
	if err != nil {
		t.Fatalf("ListCatalogs() error = %v", err)
	}
	if len(listing.Statuses) != 4 || len(listing.Severities) != 2 {
		t.Fatalf("re-seed changed row counts: %+v", listing)
	}
}

func TestSeedCatalogsRejectsBadFile(t *testing.T) {
	svc, _, _ := setupServiceWithDB(t)
	ctx := context.Background()

	if _, err := svc.SeedCatalogs(ctx, ""); err == nil {
		t.Fatalf("SeedCatalogs(empty path) expected error")
	}
	if _, err := svc.SeedCatalogs(ctx, filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("SeedCatalogs(missing file) expected error")
	}

	path := writeSeedFile(t, "[[statuses]]\nlabel = \"\"\n")
	if _, err := svc.SeedCatalogs(ctx, path); err == nil {
		t.Fatalf("SeedCatalogs(empty label) expected error")
	}
}
