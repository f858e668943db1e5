package nonconformity

import (
	"context"
	"errors"

	"nctrack/internal/bootstrap/logging"
	domain "nctrack/internal/domain/nonconformity"
	"nctrack/internal/errs"
	"nctrack/internal/ports"
)

// Reopen is the converse of Close: clears the closure date and moves
// the record back to the catalog's open-type status, best-effort.
// Reopening a record that is not closed is a conflict.
func (s *Service) Reopen(ctx context.Context, input ReopenInput) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return errors.New("nonconformity repository is required")
	}
	if s.catalogs == nil {
		return errors.New("catalog repository is required")
	}
	if s.uow == nil {
		return errors.New("unit of work is required")
	}

	recordID, err := parseRecordRef(input.RecordRef)
	if err != nil {
		return err
	}

	now := nowUTCString()
	var statusLabel string
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		record, err := s.repo.GetRecord(txCtx, recordID)
		if err != nil {
			if errors.Is(err, ports.ErrRecordNotFound) {
				return domain.NewNotFoundError(input.RecordRef)
			}
			return err
		}
		if record.ClosedAt == nil {
			return domain.NewConflictError("nonconformity is not closed")
		}

		openStatus, found, err := s.catalogs.FindOpenStatus(txCtx)
		if err != nil {
			return err
		}
		if found {
			record.StatusID = openStatus.ID
			statusLabel = openStatus.Label
		} else {
			logging.Warn(txCtx, "no open-type status configured, leaving status unchanged")
		}

		record.ClosedAt = nil
		if err := s.repo.UpdateRecord(txCtx, record); err != nil {
			return err
		}

		return s.repo.AppendAuditEntry(txCtx, ports.AuditEntryCreate{
			RecordID:  record.RecordID,
			Action:    systemAction("reopened", input.Actor),
			Actor:     actorPtr(input.Actor),
			CreatedAt: now,
		})
	}); err != nil {
		return err
	}

	if statusLabel != "" {
		s.setCacheBestEffort(ctx, cacheRecordStatusKey(input.RecordRef), statusLabel)
	}
	return nil
}
