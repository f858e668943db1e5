package ports

import "context"

// CatalogEntry is a flat id/label vocabulary row (severity, category).
type CatalogEntry struct {
	ID    uint64
	Label string
}

// StatusEntry carries the explicit closed flag that replaces the
// legacy classify-by-label-substring convention.
type StatusEntry struct {
	ID       uint64
	Label    string
	IsClosed bool
}

// AreaEntry keeps the short coding the legacy area table carried.
type AreaEntry struct {
	ID     uint64
	Label  string
	Coding string
}

// CatalogRepository reads and seeds the reference vocabularies. The
// lifecycle engine only reads; seeding is an operator action.
//
// The Get* and Find* lookups report absence through the found flag
// rather than an error so callers can warn and continue.
type CatalogRepository interface {
	GetStatus(ctx context.Context, id uint64) (StatusEntry, bool, error)
	GetSeverity(ctx context.Context, id uint64) (CatalogEntry, bool, error)
	GetCategory(ctx context.Context, id uint64) (CatalogEntry, bool, error)
	GetArea(ctx context.Context, id uint64) (AreaEntry, bool, error)

	// FindOpenStatus and FindClosedStatus resolve the default targets
	// for create/reopen and close. Best-effort: a misconfigured catalog
	// yields found=false, never an error.
	FindOpenStatus(ctx context.Context) (StatusEntry, bool, error)
	FindClosedStatus(ctx context.Context) (StatusEntry, bool, error)

	ListStatuses(ctx context.Context) ([]StatusEntry, error)
	ListSeverities(ctx context.Context) ([]CatalogEntry, error)
	ListCategories(ctx context.Context) ([]CatalogEntry, error)
	ListAreas(ctx context.Context) ([]AreaEntry, error)

	UpsertStatus(ctx context.Context, label string, isClosed bool) (StatusEntry, error)
	UpsertSeverity(ctx context.Context, label string) (CatalogEntry, error)
	UpsertCategory(ctx context.Context, label string) (CatalogEntry, error)
	UpsertArea(ctx context.Context, label string, coding string) (AreaEntry, error)
}
