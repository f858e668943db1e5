package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"nctrack/internal/bootstrap"
	"nctrack/internal/bootstrap/logging"
	"nctrack/internal/errs"
	"nctrack/internal/usecase/nonconformity"
)

var ncListCmd = &cobra.Command{
	Use:   "list",
	Short: "List nonconformity records, optionally filtered",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *nonconformity.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		items, err := svc.List(ctx, queryInputFromFlags(cmd))
		if err != nil {
			logging.Error(ctx, "list nonconformities failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list nonconformities")
		}

		if len(items) == 0 {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), "no nonconformities"); err != nil {
				return errs.Wrap(err, "write list output")
			}
			return nil
		}

		for _, item := range items {
			if _, err := fmt.Fprintf(
				cmd.OutOrStdout(),
				"%s code=%s status=%s severity=%s category=%s area=%s created=%s closed=%s description=%s\n",
				item.RecordRef,
				item.Code,
				item.StatusLabel,
				item.SeverityLabel,
				item.CategoryLabel,
				item.AreaLabel,
				item.CreatedAt,
				item.ClosedAt,
				item.Description,
			); err != nil {
				return errs.Wrap(err, "write list output")
			}
		}
		return nil
	}),
}

var ncShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show one record with its full audit trail",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *nonconformity.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		recordRef, _ := cmd.Flags().GetString("record")
		detail, err := svc.Get(ctx, recordRef)
		if err != nil {
			logging.Error(ctx, "show nonconformity failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "show nonconformity")
		}

		if _, err := fmt.Fprintf(
			cmd.OutOrStdout(),
			"%s code=%s status=%s severity=%s category=%s area=%s created=%s closed=%s\ndescription: %s\n",
			detail.RecordRef,
			detail.Code,
			detail.StatusLabel,
			detail.SeverityLabel,
			detail.CategoryLabel,
			detail.AreaLabel,
			detail.CreatedAt,
			detail.ClosedAt,
			detail.Description,
		); err != nil {
			return errs.Wrap(err, "write show output")
		}

		if len(detail.AuditTrail) == 0 {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), "no audit entries"); err != nil {
				return errs.Wrap(err, "write show output")
			}
			return nil
		}
		for _, entry := range detail.AuditTrail {
			if _, err := fmt.Fprintf(
				cmd.OutOrStdout(),
				"  #%d at=%s actor=%s action=%s\n",
				entry.EntryID,
				entry.CreatedAt,
				entry.Actor,
				entry.Action,
			); err != nil {
				return errs.Wrap(err, "write show output")
			}
		}
		return nil
	}),
}

func queryInputFromFlags(cmd *cobra.Command) nonconformity.QueryInput {
	code, _ := cmd.Flags().GetString("code")
	createdOn, _ := cmd.Flags().GetString("created-on")
	description, _ := cmd.Flags().GetString("description")
	severityID, _ := cmd.Flags().GetString("severity")
	categoryID, _ := cmd.Flags().GetString("category")
	statusID, _ := cmd.Flags().GetString("status")
	areaID, _ := cmd.Flags().GetString("area")
	return nonconformity.QueryInput{
		Code:        code,
		CreatedOn:   createdOn,
		Description: description,
		SeverityID:  severityID,
		CategoryID:  categoryID,
		StatusID:    statusID,
		AreaID:      areaID,
	}
}

func registerQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("code", "", "Substring match on code, case-insensitive")
	cmd.Flags().String("created-on", "", "Calendar day filter, YYYY-MM-DD")
	cmd.Flags().String("description", "", "Substring match on description, case-insensitive")
	cmd.Flags().String("severity", "", "Severity catalog id")
	cmd.Flags().String("category", "", "Category catalog id")
	cmd.Flags().String("status", "", "Status catalog id")
	cmd.Flags().String("area", "", "Area catalog id")
}

func init() {
	ncCmd.AddCommand(ncListCmd)
	ncCmd.AddCommand(ncShowCmd)

	registerQueryFlags(ncListCmd)

	ncShowCmd.Flags().String("record", "", "RecordRef, for example nc#12")
	_ = ncShowCmd.MarkFlagRequired("record")
}
