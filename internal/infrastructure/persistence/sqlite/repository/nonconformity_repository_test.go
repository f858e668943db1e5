package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"nctrack/internal/infrastructure/persistence/sqlite/model"
	"nctrack/internal/ports"
)

func setupRepositories(t *testing.T) (*NonconformityRepository, *CatalogRepository) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "nctrack.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(
		&model.Status{},
		&model.Severity{},
		&model.Category{},
		&model.Area{},
		&model.Nonconformity{},
		&model.AuditEntry{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return NewNonconformityRepository(db), NewCatalogRepository(db)
}

type seededCatalogs struct {
	open     ports.StatusEntry
	closed   ports.StatusEntry
	severity ports.CatalogEntry
	category ports.CatalogEntry
}

func seedCatalogs(t *testing.T, catalogs *CatalogRepository) seededCatalogs {
	t.Helper()
	ctx := context.Background()

	open, err := catalogs.UpsertStatus(ctx, "Open", false)
	if err != nil {
		t.Fatalf("upsert open: %v", err)
	}
	closed, err := catalogs.UpsertStatus(ctx, "Closed", true)
	if err != nil {
		t.Fatalf("upsert closed: %v", err)
	}
	severity, err := catalogs.UpsertSeverity(ctx, "Major")
	if err != nil {
		t.Fatalf("upsert severity: %v", err)
	}
	category, err := catalogs.UpsertCategory(ctx, "Process")
	if err != nil {
		t.Fatalf("upsert category: %v", err)
	}
	return seededCatalogs{open: open, closed: closed, severity: severity, category: category}
}

func createTestRecord(t *testing.T, repo *NonconformityRepository, seeded seededCatalogs, code string, createdAt string) ports.Nonconformity {
	t.Helper()
	record, err := repo.CreateRecord(context.Background(), ports.Nonconformity{
		Code:        code,
		Description: "defect description text",
		StatusID:    seeded.open.ID,
		SeverityID:  seeded.severity.ID,
		CategoryID:  seeded.category.ID,
		CreatedAt:   createdAt,
	})
	if err != nil {
		t.Fatalf("create record %s: %v", code, err)
	}
	return record
}

func TestQueryOrdersByStatusLabelThenCreation(t *testing.T) {
	repo, catalogs := setupRepositories(t)
	ctx := context.Background()
	seeded := seedCatalogs(t, catalogs)

	createTestRecord(t, repo, seeded, "NC-A", "2026-08-01T08:00:00Z")
	createTestRecord(t, repo, seeded, "NC-C", "2026-08-02T08:00:00Z")
	recordB := createTestRecord(t, repo, seeded, "NC-B", "2026-08-01T09:00:00Z")

	closedAt := "2026-08-03T10:00:00Z"
	recordB.StatusID = seeded.closed.ID
	recordB.ClosedAt = &closedAt
	if err := repo.UpdateRecord(ctx, recordB); err != nil {
		t.Fatalf("UpdateRecord() error = %v", err)
	}

	items, err := repo.Query(ctx, ports.RecordFilter{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("Query() len = %d", len(items))
	}
	if items[0].Code != "NC-B" || items[1].Code != "NC-A" || items[2].Code != "NC-C" {
		t.Fatalf("order = %s,%s,%s", items[0].Code, items[1].Code, items[2].Code)
	}
	if items[0].StatusLabel != "Closed" || items[1].StatusLabel != "Open" {
		t.Fatalf("labels = %s,%s", items[0].StatusLabel, items[1].StatusLabel)
	}
}

func TestQueryFilters(t *testing.T) {
	repo, catalogs := setupRepositories(t)
	ctx := context.Background()
	seeded := seedCatalogs(t, catalogs)

	createTestRecord(t, repo, seeded, "NC-2026-001", "2026-08-01T08:00:00Z")
	createTestRecord(t, repo, seeded, "NC-2026-002", "2026-08-02T23:59:59Z")

	items, err := repo.Query(ctx, ports.RecordFilter{CodeContains: "026-001"})
	if err != nil {
		t.Fatalf("Query(code) error = %v", err)
	}
	if len(items) != 1 || items[0].Code != "NC-2026-001" {
		t.Fatalf("code filter items = %+v", items)
	}

	items, err = repo.Query(ctx, ports.RecordFilter{CreatedOn: "2026-08-02"})
	if err != nil {
		t.Fatalf("Query(day) error = %v", err)
	}
	if len(items) != 1 || items[0].Code != "NC-2026-002" {
		t.Fatalf("day filter items = %+v", items)
	}

	items, err = repo.Query(ctx, ports.RecordFilter{DescriptionContains: "DEFECT"})
	if err != nil {
		t.Fatalf("Query(description) error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("description filter len = %d", len(items))
	}

	items, err = repo.Query(ctx, ports.RecordFilter{SeverityID: &seeded.severity.ID, CategoryID: &seeded.category.ID})
	if err != nil {
		t.Fatalf("Query(ids) error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("id filter len = %d", len(items))
	}

	missing := uint64(999)
	items, err = repo.Query(ctx, ports.RecordFilter{StatusID: &missing})
	if err != nil {
		t.Fatalf("Query(missing status) error = %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("missing status filter len = %d", len(items))
	}
}

func TestQueryFiltersByArea(t *testing.T) {
	repo, catalogs := setupRepositories(t)
	ctx := context.Background()
	seeded := seedCatalogs(t, catalogs)

	area, err := catalogs.UpsertArea(ctx, "Assembly", "AS-01")
	if err != nil {
		t.Fatalf("upsert area: %v", err)
	}

	createTestRecord(t, repo, seeded, "NC-NOAREA", "2026-08-01T08:00:00Z")
	tagged, err := repo.CreateRecord(ctx, ports.Nonconformity{
		Code:        "NC-AREA",
		Description: "defect description text",
		StatusID:    seeded.open.ID,
		SeverityID:  seeded.severity.ID,
		CategoryID:  seeded.category.ID,
		AreaID:      &area.ID,
		CreatedAt:   "2026-08-01T09:00:00Z",
	})
	if err != nil {
		t.Fatalf("create tagged record: %v", err)
	}

	items, err := repo.Query(ctx, ports.RecordFilter{AreaID: &area.ID})
	if err != nil {
		t.Fatalf("Query(area) error = %v", err)
	}
	if len(items) != 1 || items[0].RecordID != tagged.RecordID {
		t.Fatalf("area filter items = %+v", items)
	}
	if items[0].AreaLabel != "Assembly" {
		t.Fatalf("area label = %q, want Assembly", items[0].AreaLabel)
	}
}

func TestFindSummaryResolvesLabels(t *testing.T) {
	repo, catalogs := setupRepositories(t)
	ctx := context.Background()
	seeded := seedCatalogs(t, catalogs)

	record := createTestRecord(t, repo, seeded, "NC-ONE", "2026-08-01T08:00:00Z")

	summary, err := repo.FindSummary(ctx, record.RecordID)
	if err != nil {
		t.Fatalf("FindSummary() error = %v", err)
	}
	if summary.Code != "NC-ONE" || summary.StatusLabel != "Open" {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.SeverityLabel != "Major" || summary.CategoryLabel != "Process" {
		t.Fatalf("labels = %+v", summary)
	}
	if summary.AreaLabel != "" {
		t.Fatalf("area label = %q, want empty without area", summary.AreaLabel)
	}

	if _, err := repo.FindSummary(ctx, 999); !errors.Is(err, ports.ErrRecordNotFound) {
		t.Fatalf("FindSummary(missing) error = %v, want ErrRecordNotFound", err)
	}
}

func TestQueryJoinsLabelsWithMissingArea(t *testing.T) {
	repo, catalogs := setupRepositories(t)
	ctx := context.Background()
	seeded := seedCatalogs(t, catalogs)

	createTestRecord(t, repo, seeded, "NC-NOAREA", "2026-08-01T08:00:00Z")

	items, err := repo.Query(ctx, ports.RecordFilter{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Query() len = %d", len(items))
	}
	if items[0].AreaLabel != "" {
		t.Fatalf("area label = %q, want empty for record without area", items[0].AreaLabel)
	}
	if items[0].SeverityLabel != "Major" || items[0].CategoryLabel != "Process" {
		t.Fatalf("labels = %+v", items[0])
	}
}

func TestListAuditEntriesOrdersByTimestamp(t *testing.T) {
	repo, catalogs := setupRepositories(t)
	ctx := context.Background()
	seeded := seedCatalogs(t, catalogs)

	record := createTestRecord(t, repo, seeded, "NC-TRAIL", "2026-08-01T08:00:00Z")

	// Inserted out of chronological order on purpose.
	stamps := []string{"2026-08-01T10:00:00Z", "2026-08-01T08:30:00Z", "2026-08-01T09:00:00Z"}
	for _, stamp := range stamps {
		if err := repo.AppendAuditEntry(ctx, ports.AuditEntryCreate{
			RecordID:  record.RecordID,
			Action:    "entry at " + stamp,
			CreatedAt: stamp,
		}); err != nil {
			t.Fatalf("append entry: %v", err)
		}
	}

	entries, err := repo.ListAuditEntries(ctx, record.RecordID)
	if err != nil {
		t.Fatalf("ListAuditEntries() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries len = %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].CreatedAt > entries[i].CreatedAt {
			t.Fatalf("entries out of order: %s before %s", entries[i-1].CreatedAt, entries[i].CreatedAt)
		}
	}
}

func TestUpdateRecordMissingReturnsNotFound(t *testing.T) {
	repo, catalogs := setupRepositories(t)
	ctx := context.Background()
	seeded := seedCatalogs(t, catalogs)

	err := repo.UpdateRecord(ctx, ports.Nonconformity{
		RecordID:    999,
		Description: "does not matter",
		StatusID:    seeded.open.ID,
		SeverityID:  seeded.severity.ID,
		CategoryID:  seeded.category.ID,
	})
	if !errors.Is(err, ports.ErrRecordNotFound) {
		t.Fatalf("UpdateRecord() error = %v, want ErrRecordNotFound", err)
	}
}

func TestDeleteRecordRemovesTrail(t *testing.T) {
	repo, catalogs := setupRepositories(t)
	ctx := context.Background()
	seeded := seedCatalogs(t, catalogs)

	record := createTestRecord(t, repo, seeded, "NC-DEL", time.Now().UTC().Format(time.RFC3339Nano))
	if err := repo.AppendAuditEntry(ctx, ports.AuditEntryCreate{
		RecordID:  record.RecordID,
		Action:    "created",
		CreatedAt: record.CreatedAt,
	}); err != nil {
		t.Fatalf("append entry: %v", err)
	}

	if err := repo.DeleteRecord(ctx, record.RecordID); err != nil {
		t.Fatalf("DeleteRecord() error = %v", err)
	}

	if _, err := repo.GetRecord(ctx, record.RecordID); !errors.Is(err, ports.ErrRecordNotFound) {
		t.Fatalf("GetRecord(deleted) error = %v, want ErrRecordNotFound", err)
	}
	entries, err := repo.ListAuditEntries(ctx, record.RecordID)
	if err != nil {
		t.Fatalf("ListAuditEntries() error = %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("trail survived delete: %d entries", len(entries))
	}

	if err := repo.DeleteRecord(ctx, record.RecordID); !errors.Is(err, ports.ErrRecordNotFound) {
		t.Fatalf("DeleteRecord(missing) error = %v, want ErrRecordNotFound", err)
	}
}

func TestFindByCode(t *testing.T) {
	repo, catalogs := setupRepositories(t)
	ctx := context.Background()
	seeded := seedCatalogs(t, catalogs)

	createTestRecord(t, repo, seeded, "NC-FIND", "2026-08-01T08:00:00Z")

	record, found, err := repo.FindByCode(ctx, "NC-FIND")
	if err != nil {
		t.Fatalf("FindByCode() error = %v", err)
	}
	if !found || record.Code != "NC-FIND" {
		t.Fatalf("FindByCode() = %+v found=%v", record, found)
	}

	_, found, err = repo.FindByCode(ctx, "NC-MISSING")
	if err != nil {
		t.Fatalf("FindByCode(missing) error = %v", err)
	}
	if found {
		t.Fatalf("FindByCode(missing) found = true")
	}
}
