package nonconformity

import (
	"context"
	"errors"
	"log/slog"

	"nctrack/internal/bootstrap/logging"
	domain "nctrack/internal/domain/nonconformity"
	"nctrack/internal/errs"
	"nctrack/internal/ports"
)

// Delete is the administrative escape hatch: it hard-deletes a record
// together with its audit trail. Normal lifecycle operations never
// delete anything.
func (s *Service) Delete(ctx context.Context, recordRef string) error {
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

	recordID, err := parseRecordRef(recordRef)
	if err != nil {
		return err
	}

	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.DeleteRecord(txCtx, recordID); err != nil {
			if errors.Is(err, ports.ErrRecordNotFound) {
				return domain.NewNotFoundError(recordRef)
			}
			return err
		}
		return nil
	}); err != nil {
		return err
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, cacheRecordStatusKey(recordRef))
	}
	logging.Warn(ctx, "nonconformity hard-deleted", slog.String("record_ref", recordRef))
	return nil
}
