package nonconformity

import (
	"context"
	"errors"

	domain "nctrack/internal/domain/nonconformity"
	"nctrack/internal/errs"
	"nctrack/internal/ports"
)

// List returns record summaries matching the filter, ordered by status
// label then creation time. The same repository query backs Export, so
// what a user lists and what they export never drift.
func (s *Service) List(ctx context.Context, input QueryInput) ([]RecordListItem, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return nil, errors.New("nonconformity repository is required")
	}

	summaries, err := s.repo.Query(ctx, buildRecordFilter(input))
	if err != nil {
		return nil, err
	}

	items := make([]RecordListItem, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, mapListItem(summary))
	}
	return items, nil
}

// Get returns a record with its audit trail ordered by timestamp.
func (s *Service) Get(ctx context.Context, recordRef string) (RecordDetail, error) {
	if ctx == nil {
		return RecordDetail{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return RecordDetail{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return RecordDetail{}, errors.New("nonconformity repository is required")
	}

	recordID, err := parseRecordRef(recordRef)
	if err != nil {
		return RecordDetail{}, err
	}

	summary, err := s.repo.FindSummary(ctx, recordID)
	if err != nil {
		if errors.Is(err, ports.ErrRecordNotFound) {
			return RecordDetail{}, domain.NewNotFoundError(recordRef)
		}
		return RecordDetail{}, err
	}

	entries, err := s.repo.ListAuditEntries(ctx, recordID)
	if err != nil {
		return RecordDetail{}, err
	}

	trail := make([]AuditEntryItem, 0, len(entries))
	for _, entry := range entries {
		trail = append(trail, AuditEntryItem{
			EntryID:   entry.EntryID,
			Action:    entry.Action,
			Actor:     derefString(entry.Actor),
			CreatedAt: entry.CreatedAt,
		})
	}

	return RecordDetail{
		RecordListItem: mapListItem(summary),
		AuditTrail:     trail,
	}, nil
}

// GetStatusLabel resolves a record's current status label, cache
// first. A miss falls through to the joined lookup and repopulates
// the cache, so the fast path stays warm for whoever asks next.
func (s *Service) GetStatusLabel(ctx context.Context, recordRef string) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return "", errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return "", errors.New("nonconformity repository is required")
	}

	recordID, err := parseRecordRef(recordRef)
	if err != nil {
		return "", err
	}

	key := cacheRecordStatusKey(formatRecordRef(recordID))
	if s.cache != nil {
		if value, found, err := s.cache.Get(ctx, key); err == nil && found && value != "" {
			return value, nil
		}
	}

	summary, err := s.repo.FindSummary(ctx, recordID)
	if err != nil {
		if errors.Is(err, ports.ErrRecordNotFound) {
			return "", domain.NewNotFoundError(recordRef)
		}
		return "", err
	}

	s.setCacheBestEffort(ctx, key, summary.StatusLabel)
	return summary.StatusLabel, nil
}

func buildRecordFilter(input QueryInput) ports.RecordFilter {
	return ports.RecordFilter{
		CodeContains:        input.Code,
		CreatedOn:           parseDayFilter(input.CreatedOn),
		DescriptionContains: input.Description,
		SeverityID:          parseIDFilter(input.SeverityID),
		CategoryID:          parseIDFilter(input.CategoryID),
		StatusID:            parseIDFilter(input.StatusID),
		AreaID:              parseIDFilter(input.AreaID),
	}
}

func mapListItem(summary ports.RecordSummary) RecordListItem {
	return RecordListItem{
		RecordRef:     formatRecordRef(summary.RecordID),
		Code:          summary.Code,
		Description:   summary.Description,
		StatusLabel:   summary.StatusLabel,
		SeverityLabel: summary.SeverityLabel,
		CategoryLabel: summary.CategoryLabel,
		AreaLabel:     summary.AreaLabel,
		CreatedAt:     summary.CreatedAt,
		ClosedAt:      derefString(summary.ClosedAt),
		IsClosed:      summary.ClosedAt != nil,
	}
}
