package nonconformity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"nctrack/internal/bootstrap/logging"
	domain "nctrack/internal/domain/nonconformity"
	"nctrack/internal/errs"
	"nctrack/internal/ports"
)

// Create registers a new nonconformity and its "created" audit entry
// in one transaction. The business code is uppercased and checked for
// uniqueness against all existing records; when no status is supplied
// the catalog's open-type entry is the default.
func (s *Service) Create(ctx context.Context, input CreateInput) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return "", errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return "", errors.New("nonconformity repository is required")
	}
	if s.catalogs == nil {
		return "", errors.New("catalog repository is required")
	}
	if s.uow == nil {
		return "", errors.New("unit of work is required")
	}

	if err := domain.ValidateCode(input.Code); err != nil {
		return "", err
	}
	code := domain.NormalizeCode(input.Code)

	if err := domain.ValidateDescription(input.Description); err != nil {
		return "", err
	}
	if input.SeverityID == 0 {
		return "", domain.NewValidationError("severity", "severity is required")
	}
	if input.CategoryID == 0 {
		return "", domain.NewValidationError("category", "category is required")
	}

	now := nowUTCString()
	var created ports.Nonconformity
	var statusLabel string
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if _, exists, err := s.repo.FindByCode(txCtx, code); err != nil {
			return err
		} else if exists {
			return domain.NewValidationError("code", fmt.Sprintf("code %q already exists", code))
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

		status, err := s.resolveInitialStatus(txCtx, input.StatusID)
		if err != nil {
			return err
		}
		statusLabel = status.Label

		record := ports.Nonconformity{
			Code:        code,
			Description: input.Description,
			StatusID:    status.ID,
			SeverityID:  input.SeverityID,
			CategoryID:  input.CategoryID,
			AreaID:      input.AreaID,
			CreatedAt:   now,
		}
		if status.IsClosed {
			// Created directly into a closed-type status; the closure
			// date must accompany it.
			record.ClosedAt = &now
		}

		created, err = s.repo.CreateRecord(txCtx, record)
		if err != nil {
			return err
		}

		return s.repo.AppendAuditEntry(txCtx, ports.AuditEntryCreate{
			RecordID:  created.RecordID,
			Action:    systemAction("created", input.Actor),
			Actor:     actorPtr(input.Actor),
			CreatedAt: now,
		})
	}); err != nil {
		return "", err
	}

	recordRef := formatRecordRef(created.RecordID)
	s.setCacheBestEffort(ctx, cacheRecordStatusKey(recordRef), statusLabel)
	logging.Info(ctx, "nonconformity created",
		slog.String("record_ref", recordRef),
		slog.String("code", code),
		slog.String("status", statusLabel),
	)
	return recordRef, nil
}

func (s *Service) resolveInitialStatus(ctx context.Context, statusID *uint64) (ports.StatusEntry, error) {
	if statusID != nil {
		status, found, err := s.catalogs.GetStatus(ctx, *statusID)
		if err != nil {
			return ports.StatusEntry{}, err
		}
		if !found {
			return ports.StatusEntry{}, domain.NewInvalidReferenceError("status", *statusID)
		}
		return status, nil
	}

	status, found, err := s.catalogs.FindOpenStatus(ctx)
	if err != nil {
		return ports.StatusEntry{}, err
	}
	if !found {
		return ports.StatusEntry{}, domain.NewValidationError("status", "no status supplied and no open-type status configured")
	}
	return status, nil
}
