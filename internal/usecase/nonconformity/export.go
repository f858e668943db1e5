package nonconformity

import (
	"context"
	"errors"

	"nctrack/internal/errs"
)

// Export flattens the filtered record set for the CSV formatter. It
// goes through the exact query List uses, so export output always
// matches the listing for the same filter input.
func (s *Service) Export(ctx context.Context, input QueryInput) ([]ExportRow, error) {
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

	rows := make([]ExportRow, 0, len(summaries))
	for _, summary := range summaries {
		rows = append(rows, ExportRow{
			Code:          summary.Code,
			CreationDate:  summary.CreatedAt,
			Description:   summary.Description,
			SeverityLabel: summary.SeverityLabel,
			CategoryLabel: summary.CategoryLabel,
			StatusLabel:   summary.StatusLabel,
		})
	}
	return rows, nil
}

// ExportHeader is the fixed CSV header contract; the column set and
// order must not change.
func ExportHeader() []string {
	return []string{"code", "creationDate", "description", "severityLabel", "categoryLabel", "statusLabel"}
}

// Fields returns the row values in header order.
func (r ExportRow) Fields() []string {
	return []string{r.Code, r.CreationDate, r.Description, r.SeverityLabel, r.CategoryLabel, r.StatusLabel}
}
