package nonconformity

import (
	"context"
	"errors"
	"strings"

	domain "nctrack/internal/domain/nonconformity"
	"nctrack/internal/errs"
	"nctrack/internal/ports"
)

// AddAction appends a user-authored remedial action to the trail. The
// parent record itself does not change.
func (s *Service) AddAction(ctx context.Context, input AddActionInput) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return errors.New("nonconformity repository is required")
	}
	if s.uow == nil {
		return errors.New("unit of work is required")
	}

	recordID, err := parseRecordRef(input.RecordRef)
	if err != nil {
		return err
	}
	if err := domain.ValidateActionDescription(input.Action); err != nil {
		return err
	}

	now := nowUTCString()
	return s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetRecord(txCtx, recordID); err != nil {
			if errors.Is(err, ports.ErrRecordNotFound) {
				return domain.NewNotFoundError(input.RecordRef)
			}
			return err
		}

		return s.repo.AppendAuditEntry(txCtx, ports.AuditEntryCreate{
			RecordID:  recordID,
			Action:    strings.TrimSpace(input.Action),
			Actor:     actorPtr(input.Actor),
			CreatedAt: now,
		})
	})
}
