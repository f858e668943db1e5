package ports

import (
	"context"
	"errors"
)

var ErrRecordNotFound = errors.New("nonconformity record not found")

// Nonconformity is the persistence view of a tracked quality record.
// ClosedAt is non-null exactly when the record sits in a closed-type
// status; the usecase layer maintains that invariant.
type Nonconformity struct {
	RecordID    uint64
	Code        string
	Description string
	StatusID    uint64
	SeverityID  uint64
	CategoryID  uint64
	AreaID      *uint64
	CreatedAt   string
	ClosedAt    *string
}

// AuditEntry is one immutable action fact on a record. Actor is nil
// when the acting identity was deleted after the fact.
type AuditEntry struct {
	EntryID   uint64
	RecordID  uint64
	Action    string
	Actor     *string
	CreatedAt string
}

type AuditEntryCreate struct {
	RecordID  uint64
	Action    string
	Actor     *string
	CreatedAt string
}

// RecordFilter holds the optional, AND-composed list/export criteria.
// Zero values impose no constraint. CreatedOn is a calendar day in
// YYYY-MM-DD form matched against the day component of created_at.
type RecordFilter struct {
	CodeContains        string
	CreatedOn           string
	DescriptionContains string
	SeverityID          *uint64
	CategoryID          *uint64
	StatusID            *uint64
	AreaID              *uint64
}

// RecordSummary is a record joined with its catalog labels, the shape
// shared by the list view and the export path.
type RecordSummary struct {
	Nonconformity
	StatusLabel   string
	SeverityLabel string
	CategoryLabel string
	AreaLabel     string
}

type NonconformityReadRepository interface {
	GetRecord(ctx context.Context, recordID uint64) (Nonconformity, error)
	// FindByCode looks up a record by its normalized business code.
	FindByCode(ctx context.Context, code string) (Nonconformity, bool, error)
	// Query returns summaries matching filter, ordered by status label
	// ascending then created_at ascending. List and export both go
	// through this single path.
	Query(ctx context.Context, filter RecordFilter) ([]RecordSummary, error)
	// FindSummary returns one record joined with its catalog labels.
	FindSummary(ctx context.Context, recordID uint64) (RecordSummary, error)
	// ListAuditEntries returns the trail ordered by timestamp, not
	// insertion order.
	ListAuditEntries(ctx context.Context, recordID uint64) ([]AuditEntry, error)
}

type NonconformityRepository interface {
	NonconformityReadRepository
	CreateRecord(ctx context.Context, record Nonconformity) (Nonconformity, error)
	UpdateRecord(ctx context.Context, record Nonconformity) error
	AppendAuditEntry(ctx context.Context, input AuditEntryCreate) error
	// DeleteRecord hard-deletes a record and cascades its audit trail.
	// Administrative escape hatch only.
	DeleteRecord(ctx context.Context, recordID uint64) error
}
