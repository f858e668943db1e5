package nonconformity

import (
	"context"
	"errors"
	"log/slog"

	"nctrack/internal/bootstrap/logging"
	"nctrack/internal/errs"
	"nctrack/internal/ports"
)

type SeedCatalogsResult struct {
	Statuses   int
	Severities int
	Categories int
	Areas      int
}

// SeedCatalogs loads a catalog.toml vocabulary file and upserts its
// entries, keyed by label. Existing records keep their ids; re-seeding
// is safe.
func (s *Service) SeedCatalogs(ctx context.Context, seedFile string) (SeedCatalogsResult, error) {
	if ctx == nil {
		return SeedCatalogsResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return SeedCatalogsResult{}, errs.Wrap(err, "check context")
	}
	if s.catalogs == nil {
		return SeedCatalogsResult{}, errors.New("catalog repository is required")
	}
	if s.uow == nil {
		return SeedCatalogsResult{}, errors.New("unit of work is required")
	}

	seed, err := loadCatalogSeed(seedFile)
	if err != nil {
		return SeedCatalogsResult{}, errs.Wrap(err, "load catalog seed")
	}

	var result SeedCatalogsResult
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		for _, status := range seed.Statuses {
			if _, err := s.catalogs.UpsertStatus(txCtx, status.Label, status.closedFlag()); err != nil {
				return err
			}
			result.Statuses++
		}
		for _, severity := range seed.Severities {
			if _, err := s.catalogs.UpsertSeverity(txCtx, severity.Label); err != nil {
				return err
			}
			result.Severities++
		}
		for _, category := range seed.Categories {
			if _, err := s.catalogs.UpsertCategory(txCtx, category.Label); err != nil {
				return err
			}
			result.Categories++
		}
		for _, area := range seed.Areas {
			if _, err := s.catalogs.UpsertArea(txCtx, area.Label, area.Coding); err != nil {
				return err
			}
			result.Areas++
		}
		return nil
	}); err != nil {
		return SeedCatalogsResult{}, err
	}

	logging.Info(ctx, "catalogs seeded",
		slog.Int("statuses", result.Statuses),
		slog.Int("severities", result.Severities),
		slog.Int("categories", result.Categories),
		slog.Int("areas", result.Areas),
	)
	return result, nil
}

type CatalogListing struct {
	Statuses   []ports.StatusEntry
	Severities []ports.CatalogEntry
	Categories []ports.CatalogEntry
	Areas      []ports.AreaEntry
}

// ListCatalogs returns all four vocabularies for operator inspection.
func (s *Service) ListCatalogs(ctx context.Context) (CatalogListing, error) {
	if ctx == nil {
		return CatalogListing{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return CatalogListing{}, errs.Wrap(err, "check context")
	}
	if s.catalogs == nil {
		return CatalogListing{}, errors.New("catalog repository is required")
	}

	statuses, err := s.catalogs.ListStatuses(ctx)
	if err != nil {
		return CatalogListing{}, err
	}
	severities, err := s.catalogs.ListSeverities(ctx)
	if err != nil {
		return CatalogListing{}, err
	}
	categories, err := s.catalogs.ListCategories(ctx)
	if err != nil {
		return CatalogListing{}, err
	}
	areas, err := s.catalogs.ListAreas(ctx)
	if err != nil {
		return CatalogListing{}, err
	}

	return CatalogListing{
		Statuses:   statuses,
		Severities: severities,
		Categories: categories,
		Areas:      areas,
	}, nil
}
