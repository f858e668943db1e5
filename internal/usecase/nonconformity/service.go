package nonconformity

import (
	"context"

	"nctrack/internal/ports"
)

// Service implements the nonconformity lifecycle: every mutating
// operation runs the record write and its audit append in one unit of
// work, so the trail and the state never drift apart.
type Service struct {
	repo     ports.NonconformityRepository
	catalogs ports.CatalogRepository
	uow      ports.UnitOfWork
	cache    ports.Cache
}

// NewService wires lifecycle usecases with repositories and optional cache.
func NewService(repo ports.NonconformityRepository, catalogs ports.CatalogRepository, uow ports.UnitOfWork, cache ports.Cache) *Service {
	return &Service{
		repo:     repo,
		catalogs: catalogs,
		uow:      uow,
		cache:    cache,
	}
}

type CreateInput struct {
	Code        string
	Description string
	SeverityID  uint64
	CategoryID  uint64
	AreaID      *uint64
	StatusID    *uint64
	Actor       string
}

type EditInput struct {
	RecordRef   string
	Description string
	SeverityID  uint64
	CategoryID  uint64
	AreaID      *uint64
	StatusID    uint64
	Actor       string
}

type ChangeStatusInput struct {
	RecordRef string
	StatusID  uint64
	Actor     string
}

type CloseInput struct {
	RecordRef string
	Comment   string
	Actor     string
}

type ReopenInput struct {
	RecordRef string
	Actor     string
}

type AddActionInput struct {
	RecordRef string
	Action    string
	Actor     string
}

// QueryInput carries raw filter values as entered. Id-typed values are
// parsed leniently: anything that is not a well-formed integer imposes
// no constraint.
type QueryInput struct {
	Code        string
	CreatedOn   string
	Description string
	SeverityID  string
	CategoryID  string
	StatusID    string
	AreaID      string
}

type RecordListItem struct {
	RecordRef     string
	Code          string
	Description   string
	StatusLabel   string
	SeverityLabel string
	CategoryLabel string
	AreaLabel     string
	CreatedAt     string
	ClosedAt      string
	IsClosed      bool
}

type AuditEntryItem struct {
	EntryID   uint64
	Action    string
	Actor     string
	CreatedAt string
}

type RecordDetail struct {
	RecordListItem
	AuditTrail []AuditEntryItem
}

// ExportRow is the flattened export contract. Field order is the CSV
// column order: code, creationDate, description, severityLabel,
// categoryLabel, statusLabel.
type ExportRow struct {
	Code          string
	CreationDate  string
	Description   string
	SeverityLabel string
	CategoryLabel string
	StatusLabel   string
}

func (s *Service) setCacheBestEffort(ctx context.Context, key string, value string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Set(ctx, key, value, 0)
}
