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

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
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

func (r *CatalogRepository) GetStatus(ctx context.Context, id uint64) (ports.StatusEntry, bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.StatusEntry{}, false, err
	}

	var row model.Status
	if err := db.Where("status_id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.StatusEntry{}, false, nil
		}
		return ports.StatusEntry{}, false, domain.NewStorageError("query status", err)
	}
	return mapStatus(row), true, nil
}

func (r *CatalogRepository) GetSeverity(ctx context.Context, id uint64) (ports.CatalogEntry, bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.CatalogEntry{}, false, err
	}

	var row model.Severity
	if err := db.Where("severity_id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.CatalogEntry{}, false, nil
		}
		return ports.CatalogEntry{}, false, domain.NewStorageError("query severity", err)
	}
	return ports.CatalogEntry{ID: row.SeverityID, Label: row.Label}, true, nil
}

func (r *CatalogRepository) GetCategory(ctx context.Context, id uint64) (ports.CatalogEntry, bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.CatalogEntry{}, false, err
	}

	var row model.Category
	if err := db.Where("category_id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.CatalogEntry{}, false, nil
		}
		return ports.CatalogEntry{}, false, domain.NewStorageError("query category", err)
	}
	return ports.CatalogEntry{ID: row.CategoryID, Label: row.Label}, true, nil
}

func (r *CatalogRepository) GetArea(ctx context.Context, id uint64) (ports.AreaEntry, bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.AreaEntry{}, false, err
	}

	var row model.Area
	if err := db.Where("area_id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.AreaEntry{}, false, nil
		}
		return ports.AreaEntry{}, false, domain.NewStorageError("query area", err)
	}
	return ports.AreaEntry{ID: row.AreaID, Label: row.Label, Coding: row.Coding}, true, nil
}

// FindOpenStatus resolves the catalog's first open-type entry, the
// default for create and the target for reopen. found=false means the
// catalog carries no open-type status; callers warn and continue.
func (r *CatalogRepository) FindOpenStatus(ctx context.Context) (ports.StatusEntry, bool, error) {
	return r.findByClosedFlag(ctx, false)
}

// FindClosedStatus resolves the catalog's first closed-type entry, the
// target for close.
func (r *CatalogRepository) FindClosedStatus(ctx context.Context) (ports.StatusEntry, bool, error) {
	return r.findByClosedFlag(ctx, true)
}

func (r *CatalogRepository) findByClosedFlag(ctx context.Context, isClosed bool) (ports.StatusEntry, bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.StatusEntry{}, false, err
	}

	var row model.Status
	if err := db.Where("is_closed = ?", isClosed).Order("status_id asc").Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.StatusEntry{}, false, nil
		}
		return ports.StatusEntry{}, false, domain.NewStorageError("query status by closed flag", err)
	}
	return mapStatus(row), true, nil
}

func (r *CatalogRepository) ListStatuses(ctx context.Context) ([]ports.StatusEntry, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Status
	if err := db.Order("status_id asc").Find(&rows).Error; err != nil {
		return nil, domain.NewStorageError("query statuses", err)
	}

	items := make([]ports.StatusEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapStatus(row))
	}
	return items, nil
}

func (r *CatalogRepository) ListSeverities(ctx context.Context) ([]ports.CatalogEntry, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Severity
	if err := db.Order("severity_id asc").Find(&rows).Error; err != nil {
		return nil, domain.NewStorageError("query severities", err)
	}

	items := make([]ports.CatalogEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.CatalogEntry{ID: row.SeverityID, Label: row.Label})
	}
	return items, nil
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]ports.CatalogEntry, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Category
	if err := db.Order("category_id asc").Find(&rows).Error; err != nil {
		return nil, domain.NewStorageError("query categories", err)
	}

	items := make([]ports.CatalogEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.CatalogEntry{ID: row.CategoryID, Label: row.Label})
	}
	return items, nil
}

func (r *CatalogRepository) ListAreas(ctx context.Context) ([]ports.AreaEntry, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Area
	if err := db.Order("area_id asc").Find(&rows).Error; err != nil {
		return nil, domain.NewStorageError("query areas", err)
	}

	items := make([]ports.AreaEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.AreaEntry{ID: row.AreaID, Label: row.Label, Coding: row.Coding})
	}
	return items, nil
}

func (r *CatalogRepository) UpsertStatus(ctx context.Context, label string, isClosed bool) (ports.StatusEntry, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.StatusEntry{}, err
	}

	label = strings.TrimSpace(label)
	if label == "" {
		return ports.StatusEntry{}, errors.New("status label is required")
	}

	var row model.Status
	err = db.Where("label = ?", label).Take(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = model.Status{Label: label, IsClosed: isClosed}
		if err := db.Create(&row).Error; err != nil {
			return ports.StatusEntry{}, domain.NewStorageError("insert status", err)
		}
	case err != nil:
		return ports.StatusEntry{}, domain.NewStorageError("query status by label", err)
	default:
		if row.IsClosed != isClosed {
			row.IsClosed = isClosed
			if err := db.Model(&model.Status{}).Where("status_id = ?", row.StatusID).Update("is_closed", isClosed).Error; err != nil {
				return ports.StatusEntry{}, domain.NewStorageError("update status closed flag", err)
			}
		}
	}
	return mapStatus(row), nil
}

func (r *CatalogRepository) UpsertSeverity(ctx context.Context, label string) (ports.CatalogEntry, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.CatalogEntry{}, err
	}

	label = strings.TrimSpace(label)
	if label == "" {
		return ports.CatalogEntry{}, errors.New("severity label is required")
	}

	var row model.Severity
	err = db.Where("label = ?", label).Take(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = model.Severity{Label: label}
		if err := db.Create(&row).Error; err != nil {
			return ports.CatalogEntry{}, domain.NewStorageError("insert severity", err)
		}
	case err != nil:
		return ports.CatalogEntry{}, domain.NewStorageError("query severity by label", err)
	}
	return ports.CatalogEntry{ID: row.SeverityID, Label: row.Label}, nil
}

func (r *CatalogRepository) UpsertCategory(ctx context.Context, label string) (ports.CatalogEntry, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.CatalogEntry{}, err
	}

	label = strings.TrimSpace(label)
	if label == "" {
		return ports.CatalogEntry{}, errors.New("category label is required")
	}

	var row model.Category
	err = db.Where("label = ?", label).Take(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = model.Category{Label: label}
		if err := db.Create(&row).Error; err != nil {
			return ports.CatalogEntry{}, domain.NewStorageError("insert category", err)
		}
	case err != nil:
		return ports.CatalogEntry{}, domain.NewStorageError("query category by label", err)
	}
	return ports.CatalogEntry{ID: row.CategoryID, Label: row.Label}, nil
}

func (r *CatalogRepository) UpsertArea(ctx context.Context, label string, coding string) (ports.AreaEntry, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.AreaEntry{}, err
	}

	label = strings.TrimSpace(label)
	if label == "" {
		return ports.AreaEntry{}, errors.New("area label is required")
	}
	coding = strings.TrimSpace(coding)

	var row model.Area
	err = db.Where("label = ?", label).Take(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = model.Area{Label: label, Coding: coding}
		if err := db.Create(&row).Error; err != nil {
			return ports.AreaEntry{}, domain.NewStorageError("insert area", err)
		}
	case err != nil:
		return ports.AreaEntry{}, domain.NewStorageError("query area by label", err)
	default:
		if coding != "" && row.Coding != coding {
			row.Coding = coding
			if err := db.Model(&model.Area{}).Where("area_id = ?", row.AreaID).Update("coding", coding).Error; err != nil {
				return ports.AreaEntry{}, domain.NewStorageError("update area coding", err)
			}
		}
	}
	return ports.AreaEntry{ID: row.AreaID, Label: row.Label, Coding: row.Coding}, nil
}

func mapStatus(row model.Status) ports.StatusEntry {
	return ports.StatusEntry{
		ID:       row.StatusID,
		Label:    row.Label,
		IsClosed: row.IsClosed,
	}
}
