package nonconformity

import (
	"context"
	"errors"
	"strings"

	"nctrack/internal/bootstrap/logging"
	domain "nctrack/internal/domain/nonconformity"
	"nctrack/internal/errs"
	"nctrack/internal/ports"
)

// Close stamps the closure date and moves the record to the catalog's
// closed-type status. Closing an already-closed record is a conflict,
// not a silent no-op. A catalog without any closed-type status does
// not block the close: the status stays put and a warning is logged.
func (s *Service) Close(ctx context.Context, input CloseInput) error {
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
		if record.ClosedAt != nil {
			return domain.NewConflictError("nonconformity already closed")
		}

		closedStatus, found, err := s.catalogs.FindClosedStatus(txCtx)
		if err != nil {
			return err
		}
		if found {
			record.StatusID = closedStatus.ID
			statusLabel = closedStatus.Label
		} else {
			logging.Warn(txCtx, "no closed-type status configured, leaving status unchanged")
		}

		record.ClosedAt = &now
		if err := s.repo.UpdateRecord(txCtx, record); err != nil {
			return err
		}

		action := "closed"
		if comment := strings.TrimSpace(input.Comment); comment != "" {
			action = "closed: " + comment
		}
		// System-authored entry; the user-action minimum length does
		// not apply to the optional comment.
		return s.repo.AppendAuditEntry(txCtx, ports.AuditEntryCreate{
			RecordID:  record.RecordID,
			Action:    action,
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
