package nonconformity

import (
	"context"
	"errors"
	"fmt"

	domain "nctrack/internal/domain/nonconformity"
	"nctrack/internal/errs"
	"nctrack/internal/ports"
)

// ChangeStatus reassigns a record's status. Entering a closed-type
// status stamps the closure date, leaving one clears it. The old→new
// pair is logged even when old == new; idempotent transitions still
// leave a trace.
func (s *Service) ChangeStatus(ctx context.Context, input ChangeStatusInput) error {
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
	var newLabel string
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		record, err := s.repo.GetRecord(txCtx, recordID)
		if err != nil {
			if errors.Is(err, ports.ErrRecordNotFound) {
				return domain.NewNotFoundError(input.RecordRef)
			}
			return err
		}

		newStatus, found, err := s.catalogs.GetStatus(txCtx, input.StatusID)
		if err != nil {
			return err
		}
		if !found {
			return domain.NewInvalidReferenceError("status", input.StatusID)
		}
		newLabel = newStatus.Label

		oldLabel := fmt.Sprintf("#%d", record.StatusID)
		oldWasClosed := record.ClosedAt != nil
		if oldStatus, found, err := s.catalogs.GetStatus(txCtx, record.StatusID); err != nil {
			return err
		} else if found {
			oldLabel = oldStatus.Label
			oldWasClosed = oldStatus.IsClosed
		}

		record.StatusID = newStatus.ID
		if newStatus.IsClosed && record.ClosedAt == nil {
			record.ClosedAt = &now
		} else if !newStatus.IsClosed && oldWasClosed {
			record.ClosedAt = nil
		}

		if err := s.repo.UpdateRecord(txCtx, record); err != nil {
			return err
		}

		action := fmt.Sprintf("status changed from %q to %q", oldLabel, newStatus.Label)
		return s.repo.AppendAuditEntry(txCtx, ports.AuditEntryCreate{
			RecordID:  record.RecordID,
			Action:    systemAction(action, input.Actor),
			Actor:     actorPtr(input.Actor),
			CreatedAt: now,
		})
	}); err != nil {
		return err
	}

	s.setCacheBestEffort(ctx, cacheRecordStatusKey(input.RecordRef), newLabel)
	return nil
}
