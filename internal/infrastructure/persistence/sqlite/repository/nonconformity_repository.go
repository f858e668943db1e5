package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	domain "nctrack/internal/domain/nonconformity"
	"nctrack/internal/infrastructure/persistence/sqlite/model"
	"nctrack/internal/ports"
)

type NonconformityRepository struct {
	db *gorm.DB
}

func NewNonconformityRepository(db *gorm.DB) *NonconformityRepository {
	return &NonconformityRepository{db: db}
}

func (r *NonconformityRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *NonconformityRepository) GetRecord(ctx context.Context, recordID uint64) (ports.Nonconformity, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Nonconformity{}, err
	}

	var row model.Nonconformity
	if err := db.Where("record_id = ?", recordID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Nonconformity{}, ports.ErrRecordNotFound
		}
		return ports.Nonconformity{}, domain.NewStorageError("query nonconformity", err)
	}
	return mapRecord(row), nil
}

func (r *NonconformityRepository) FindByCode(ctx context.Context, code string) (ports.Nonconformity, bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Nonconformity{}, false, err
	}

	var row model.Nonconformity
	if err := db.Where("code = ?", code).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Nonconformity{}, false, nil
		}
		return ports.Nonconformity{}, false, domain.NewStorageError("query nonconformity by code", err)
	}
	return mapRecord(row), true, nil
}

// recordSummaryRow is the scan target for the joined list/export query.
type recordSummaryRow struct {
	RecordID      uint64  `gorm:"column:record_id"`
	Code          string  `gorm:"column:code"`
	Description   string  `gorm:"column:description"`
	StatusID      uint64  `gorm:"column:status_id"`
	SeverityID    uint64  `gorm:"column:severity_id"`
	CategoryID    uint64  `gorm:"column:category_id"`
	AreaID        *uint64 `gorm:"column:area_id"`
	CreatedAt     string  `gorm:"column:created_at"`
	ClosedAt      *string `gorm:"column:closed_at"`
	StatusLabel   string  `gorm:"column:status_label"`
	SeverityLabel string  `gorm:"column:severity_label"`
	CategoryLabel string  `gorm:"column:category_label"`
	AreaLabel     string  `gorm:"column:area_label"`
}

// summaryQuery builds the record-with-labels join shared by Query and
// FindSummary.
func summaryQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&model.Nonconformity{}).
		Select(strings.Join([]string{
			"nonconformities.record_id",
			"nonconformities.code",
			"nonconformities.description",
			"nonconformities.status_id",
			"nonconformities.severity_id",
			"nonconformities.category_id",
			"nonconformities.area_id",
			"nonconformities.created_at",
			"nonconformities.closed_at",
			"COALESCE(statuses.label, '') AS status_label",
			"COALESCE(severities.label, '') AS severity_label",
			"COALESCE(categories.label, '') AS category_label",
			"COALESCE(areas.label, '') AS area_label",
		}, ", ")).
		Joins("LEFT JOIN statuses ON statuses.status_id = nonconformities.status_id").
		Joins("LEFT JOIN severities ON severities.severity_id = nonconformities.severity_id").
		Joins("LEFT JOIN categories ON categories.category_id = nonconformities.category_id").
		Joins("LEFT JOIN areas ON areas.area_id = nonconformities.area_id")
}

// Query is the single filter/ordering path behind both the list view
// and the export. Ordering is status label ascending, then created_at
// ascending, so open work groups ahead of closed work and oldest work
// surfaces first within a group.
func (r *NonconformityRepository) Query(ctx context.Context, filter ports.RecordFilter) ([]ports.RecordSummary, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := summaryQuery(db)

	if code := strings.TrimSpace(filter.CodeContains); code != "" {
		query = query.Where("LOWER(nonconformities.code) LIKE ?", "%"+strings.ToLower(code)+"%")
	}
	if day := strings.TrimSpace(filter.CreatedOn); day != "" {
		// created_at is RFC3339 UTC text, so the calendar day is its prefix.
		query = query.Where("nonconformities.created_at LIKE ?", day+"%")
	}
	if description := strings.TrimSpace(filter.DescriptionContains); description != "" {
		query = query.Where("LOWER(nonconformities.description) LIKE ?", "%"+strings.ToLower(description)+"%")
	}
	if filter.SeverityID != nil {
		query = query.Where("nonconformities.severity_id = ?", *filter.SeverityID)
	}
	if filter.CategoryID != nil {
		query = query.Where("nonconformities.category_id = ?", *filter.CategoryID)
	}
	if filter.StatusID != nil {
		query = query.Where("nonconformities.status_id = ?", *filter.StatusID)
	}
	if filter.AreaID != nil {
		query = query.Where("nonconformities.area_id = ?", *filter.AreaID)
	}

	var rows []recordSummaryRow
	if err := query.
		Order("status_label asc, nonconformities.created_at asc, nonconformities.record_id asc").
		Scan(&rows).Error; err != nil {
		return nil, domain.NewStorageError("query nonconformities", err)
	}

	items := make([]ports.RecordSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapSummaryRow(row))
	}
	return items, nil
}

// FindSummary returns one record with its catalog labels resolved.
func (r *NonconformityRepository) FindSummary(ctx context.Context, recordID uint64) (ports.RecordSummary, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.RecordSummary{}, err
	}

	var row recordSummaryRow
	if err := summaryQuery(db).
		Where("nonconformities.record_id = ?", recordID).
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.RecordSummary{}, ports.ErrRecordNotFound
		}
		return ports.RecordSummary{}, domain.NewStorageError("query nonconformity summary", err)
	}
	return mapSummaryRow(row), nil
}

func mapSummaryRow(row recordSummaryRow) ports.RecordSummary {
	return ports.RecordSummary{
		Nonconformity: ports.Nonconformity{
			RecordID:    row.RecordID,
			Code:        row.Code,
			Description: row.Description,
			StatusID:    row.StatusID,
			SeverityID:  row.SeverityID,
			CategoryID:  row.CategoryID,
			AreaID:      row.AreaID,
			CreatedAt:   row.CreatedAt,
			ClosedAt:    row.ClosedAt,
		},
		StatusLabel:   row.StatusLabel,
		SeverityLabel: row.SeverityLabel,
		CategoryLabel: row.CategoryLabel,
		AreaLabel:     row.AreaLabel,
	}
}

// ListAuditEntries orders by timestamp, not insertion order; entry id
// breaks ties for entries written in the same instant.
func (r *NonconformityRepository) ListAuditEntries(ctx context.Context, recordID uint64) ([]ports.AuditEntry, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.AuditEntry
	if err := db.
		Where("record_id = ?", recordID).
		Order("created_at asc, entry_id asc").
		Find(&rows).Error; err != nil {
		return nil, domain.NewStorageError("query audit entries", err)
	}

	items := make([]ports.AuditEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.AuditEntry{
			EntryID:   row.EntryID,
			RecordID:  row.RecordID,
			Action:    row.Action,
			Actor:     row.Actor,
			CreatedAt: row.CreatedAt,
		})
	}
	return items, nil
}

func (r *NonconformityRepository) CreateRecord(ctx context.Context, record ports.Nonconformity) (ports.Nonconformity, error) {
	if ports.TxFromContext(ctx) != nil {
		db, err := r.dbFromContext(ctx)
		if err != nil {
			return ports.Nonconformity{}, err
		}

		row := model.Nonconformity{
			Code:        record.Code,
			Description: record.Description,
			StatusID:    record.StatusID,
			SeverityID:  record.SeverityID,
			CategoryID:  record.CategoryID,
			AreaID:      record.AreaID,
			CreatedAt:   record.CreatedAt,
			ClosedAt:    record.ClosedAt,
		}
		if err := db.Create(&row).Error; err != nil {
			return ports.Nonconformity{}, domain.NewStorageError("insert nonconformity", err)
		}
		return mapRecord(row), nil
	}

	var created ports.Nonconformity
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := ports.WithTxContext(ctx, tx)
		row, err := r.CreateRecord(txCtx, record)
		if err != nil {
			return err
		}
		created = row
		return nil
	}); err != nil {
		return ports.Nonconformity{}, err
	}
	return created, nil
}

// UpdateRecord writes the mutable columns. Code and created_at are
// immutable and deliberately absent from the update set.
func (r *NonconformityRepository) UpdateRecord(ctx context.Context, record ports.Nonconformity) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Model(&model.Nonconformity{}).
		Where("record_id = ?", record.RecordID).
		Updates(map[string]any{
			"description": record.Description,
			"status_id":   record.StatusID,
			"severity_id": record.SeverityID,
			"category_id": record.CategoryID,
			"area_id":     record.AreaID,
			"closed_at":   record.ClosedAt,
		})
	if result.Error != nil {
		return domain.NewStorageError("update nonconformity", result.Error)
	}
	if result.RowsAffected == 0 {
		return ports.ErrRecordNotFound
	}
	return nil
}

func (r *NonconformityRepository) AppendAuditEntry(ctx context.Context, input ports.AuditEntryCreate) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row := model.AuditEntry{
		RecordID:  input.RecordID,
		Action:    input.Action,
		Actor:     input.Actor,
		CreatedAt: input.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return domain.NewStorageError("insert audit entry", err)
	}
	return nil
}

// DeleteRecord removes a record and its trail. Deleting a record is
// the one place a hard delete is permitted; the trail deletion stays
// explicit so cascade works even without the sqlite foreign_keys pragma.
func (r *NonconformityRepository) DeleteRecord(ctx context.Context, recordID uint64) error {
	if ports.TxFromContext(ctx) != nil {
		db, err := r.dbFromContext(ctx)
		if err != nil {
			return err
		}

		if err := db.Where("record_id = ?", recordID).Delete(&model.AuditEntry{}).Error; err != nil {
			return domain.NewStorageError("delete audit entries", err)
		}
		result := db.Where("record_id = ?", recordID).Delete(&model.Nonconformity{})
		if result.Error != nil {
			return domain.NewStorageError("delete nonconformity", result.Error)
		}
		if result.RowsAffected == 0 {
			return ports.ErrRecordNotFound
		}
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := ports.WithTxContext(ctx, tx)
		return r.DeleteRecord(txCtx, recordID)
	})
}

func mapRecord(row model.Nonconformity) ports.Nonconformity {
	return ports.Nonconformity{
		RecordID:    row.RecordID,
		Code:        row.Code,
		Description: row.Description,
		StatusID:    row.StatusID,
		SeverityID:  row.SeverityID,
		CategoryID:  row.CategoryID,
		AreaID:      row.AreaID,
		CreatedAt:   row.CreatedAt,
		ClosedAt:    row.ClosedAt,
	}
}
