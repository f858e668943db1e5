package nonconformity

import (
	"context"
	"errors"

	domain "nctrack/internal/domain/nonconformity"
	"nctrack/internal/errs"
	"nctrack/internal/ports"
)

// Edit updates the mutable fields of an existing record. Code and
// creation date are immutable; code uniqueness is therefore never
// re-checked here. The closure date tracks the status class: editing a
// record into a closed-type status stamps it, editing out clears it.
func (s *Service) Edit(ctx context.Context, input EditInput) error {
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

	if err := domain.ValidateDescription(input.Description); err != nil {
		return err
	}
	if input.SeverityID == 0 {
		return domain.NewValidationError("severity", "severity is required")
	}
	if input.CategoryID == 0 {
		return domain.NewValidationError("category", "category is required")
	}
	if input.StatusID == 0 {
		return domain.NewValidationError("status", "status is required")
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

		if _, found, err := s.catalogs.GetSeverity(txCtx, input.SeverityID); err != nil {
			return err
		} else if !found {
			return domain.NewInvalidReferenceError("severity", input.SeverityID)
		}
		if _, found, err := s.catalogs.GetCategory(txCtx, input.CategoryID); err != nil {
			return err
		} else if !found {
			return domain.NewInvalidReferenceError("category", input.CategoryID)
		}
		if input.AreaID != nil {
			if _, found, err := s.catalogs.GetArea(txCtx, *input.AreaID); err != nil {
				return err
			} else if !found {
				return domain.NewInvalidReferenceError("area", *input.AreaID)
			}
		}
		status, found, err := s.catalogs.GetStatus(txCtx, input.StatusID)
		if err != nil {
			return err
		}
		if !found {
			return domain.NewInvalidReferenceError("status", input.StatusID)
		}
		statusLabel = status.Label

		record.Description = input.Description
		record.SeverityID = input.SeverityID
		record.CategoryID = input.CategoryID
		record.AreaID = input.AreaID
		record.StatusID = status.ID
		if status.IsClosed && record.ClosedAt == nil {
			record.ClosedAt = &now
		} else if !status.IsClosed {
			record.ClosedAt = nil
		}

		if err := s.repo.UpdateRecord(txCtx, record); err != nil {
			return err
		}

		return s.repo.AppendAuditEntry(txCtx, ports.AuditEntryCreate{
			RecordID:  record.RecordID,
			Action:    systemAction("edited", input.Actor),
			Actor:     actorPtr(input.Actor),
			CreatedAt: now,
		})
	}); err != nil {
		return err
	}

	s.setCacheBestEffort(ctx, cacheRecordStatusKey(input.RecordRef), statusLabel)
	return nil
}
