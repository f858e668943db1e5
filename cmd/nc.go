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

var ncCmd = &cobra.Command{
	Use:   "nc",
	Short: "Manage nonconformity records and their audit trail",
}

var ncCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a nonconformity record",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *nonconformity.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		code, _ := cmd.Flags().GetString("code")
		description, _ := cmd.Flags().GetString("description")
		severityID, _ := cmd.Flags().GetUint64("severity")
		categoryID, _ := cmd.Flags().GetUint64("category")
		actor, _ := cmd.Flags().GetString("actor")

		recordRef, err := svc.Create(ctx, nonconformity.CreateInput{
			Code:        code,
			Description: description,
			SeverityID:  severityID,
			CategoryID:  categoryID,
			AreaID:      optionalIDFlag(cmd, "area"),
			StatusID:    optionalIDFlag(cmd, "status"),
			Actor:       actor,
		})
		if err != nil {
			logging.Error(ctx, "create nonconformity failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "create nonconformity")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "created nonconformity: %s\n", recordRef); err != nil {
			return errs.Wrap(err, "write create output")
		}
		return nil
	}),
}

var ncEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the mutable fields of a record (code stays immutable)",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *nonconformity.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		recordRef, _ := cmd.Flags().GetString("record")
		description, _ := cmd.Flags().GetString("description")
		severityID, _ := cmd.Flags().GetUint64("severity")
		categoryID, _ := cmd.Flags().GetUint64("category")
		statusID, _ := cmd.Flags().GetUint64("status")
		actor, _ := cmd.Flags().GetString("actor")

		if err := svc.Edit(ctx, nonconformity.EditInput{
			RecordRef:   recordRef,
			Description: description,
			SeverityID:  severityID,
			CategoryID:  categoryID,
			AreaID:      optionalIDFlag(cmd, "area"),
			StatusID:    statusID,
			Actor:       actor,
		}); err != nil {
			logging.Error(ctx, "edit nonconformity failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "edit nonconformity")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "edited nonconformity: %s\n", recordRef); err != nil {
			return errs.Wrap(err, "write edit output")
		}
		return nil
	}),
}

var ncSetStatusCmd = &cobra.Command{
	Use:   "set-status",
	Short: "Reassign a record's status, keeping closure date consistent",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *nonconformity.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		recordRef, _ := cmd.Flags().GetString("record")
		statusID, _ := cmd.Flags().GetUint64("status")
		actor, _ := cmd.Flags().GetString("actor")

		if err := svc.ChangeStatus(ctx, nonconformity.ChangeStatusInput{
			RecordRef: recordRef,
			StatusID:  statusID,
			Actor:     actor,
		}); err != nil {
			logging.Error(ctx, "change status failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "change status")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "status changed: %s\n", recordRef); err != nil {
			return errs.Wrap(err, "write set-status output")
		}
		return nil
	}),
}

var ncCloseCmd = &cobra.Command{
	Use:   "close",
	Short: "Close a record, stamping the closure date",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *nonconformity.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		recordRef, _ := cmd.Flags().GetString("record")
		comment, _ := cmd.Flags().GetString("comment")
		actor, _ := cmd.Flags().GetString("actor")

		if err := svc.Close(ctx, nonconformity.CloseInput{
			RecordRef: recordRef,
			Comment:   comment,
			Actor:     actor,
		}); err != nil {
			logging.Error(ctx, "close nonconformity failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "close nonconformity")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "closed nonconformity: %s\n", recordRef); err != nil {
			return errs.Wrap(err, "write close output")
		}
		return nil
	}),
}

var ncReopenCmd = &cobra.Command{
	Use:   "reopen",
	Short: "Reopen a closed record, clearing the closure date",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *nonconformity.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		recordRef, _ := cmd.Flags().GetString("record")
		actor, _ := cmd.Flags().GetString("actor")

		if err := svc.Reopen(ctx, nonconformity.ReopenInput{
			RecordRef: recordRef,
			Actor:     actor,
		}); err != nil {
			logging.Error(ctx, "reopen nonconformity failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "reopen nonconformity")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "reopened nonconformity: %s\n", recordRef); err != nil {
			return errs.Wrap(err, "write reopen output")
		}
		return nil
	}),
}

var ncActionCmd = &cobra.Command{
	Use:   "add-action",
	Short: "Append a remedial action to a record's audit trail",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *nonconformity.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		recordRef, _ := cmd.Flags().GetString("record")
		action, _ := cmd.Flags().GetString("action")
		actor, _ := cmd.Flags().GetString("actor")

		if err := svc.AddAction(ctx, nonconformity.AddActionInput{
			RecordRef: recordRef,
			Action:    action,
			Actor:     actor,
		}); err != nil {
			logging.Error(ctx, "add action failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "add action")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "action recorded: %s\n", recordRef); err != nil {
			return errs.Wrap(err, "write add-action output")
		}
		return nil
	}),
}

var ncDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Hard-delete a record and its audit trail (administrative)",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *nonconformity.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		recordRef, _ := cmd.Flags().GetString("record")
		if err := svc.Delete(ctx, recordRef); err != nil {
			logging.Error(ctx, "delete nonconformity failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "delete nonconformity")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted nonconformity: %s\n", recordRef); err != nil {
			return errs.Wrap(err, "write delete output")
		}
		return nil
	}),
}

var ncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show a record's current status label",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *nonconformity.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		recordRef, _ := cmd.Flags().GetString("record")
		label, err := svc.GetStatusLabel(ctx, recordRef)
		if err != nil {
			logging.Error(ctx, "status lookup failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "look up status")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s status=%s\n", recordRef, label); err != nil {
			return errs.Wrap(err, "write status output")
		}
		return nil
	}),
}

// optionalIDFlag distinguishes "flag not set" from a value; zero means
// the caller left the reference unset.
func optionalIDFlag(cmd *cobra.Command, name string) *uint64 {
	value, err := cmd.Flags().GetUint64(name)
	if err != nil || value == 0 {
		return nil
	}
	return &value
}

func init() {
	rootCmd.AddCommand(ncCmd)
	ncCmd.AddCommand(ncCreateCmd)
	ncCmd.AddCommand(ncEditCmd)
	ncCmd.AddCommand(ncSetStatusCmd)
	ncCmd.AddCommand(ncCloseCmd)
	ncCmd.AddCommand(ncReopenCmd)
	ncCmd.AddCommand(ncActionCmd)
	ncCmd.AddCommand(ncDeleteCmd)
	ncCmd.AddCommand(ncStatusCmd)

	ncCreateCmd.Flags().String("code", "", "Business code, for example NC-2026-001")
	ncCreateCmd.Flags().String("description", "", "Nonconformity description")
	ncCreateCmd.Flags().Uint64("severity", 0, "Severity catalog id")
	ncCreateCmd.Flags().Uint64("category", 0, "Category catalog id")
	ncCreateCmd.Flags().Uint64("area", 0, "Area catalog id (optional)")
	ncCreateCmd.Flags().Uint64("status", 0, "Status catalog id (default: open-type entry)")
	ncCreateCmd.Flags().String("actor", "", "Acting identity for the audit entry")
	_ = ncCreateCmd.MarkFlagRequired("code")
	_ = ncCreateCmd.MarkFlagRequired("description")

	ncEditCmd.Flags().String("record", "", "RecordRef, for example nc#12")
	ncEditCmd.Flags().String("description", "", "Nonconformity description")
	ncEditCmd.Flags().Uint64("severity", 0, "Severity catalog id")
	ncEditCmd.Flags().Uint64("category", 0, "Category catalog id")
	ncEditCmd.Flags().Uint64("area", 0, "Area catalog id (optional)")
	ncEditCmd.Flags().Uint64("status", 0, "Status catalog id")
	ncEditCmd.Flags().String("actor", "", "Acting identity for the audit entry")
	_ = ncEditCmd.MarkFlagRequired("record")

	ncSetStatusCmd.Flags().String("record", "", "RecordRef, for example nc#12")
	ncSetStatusCmd.Flags().Uint64("status", 0, "Target status catalog id")
	ncSetStatusCmd.Flags().String("actor", "", "Acting identity for the audit entry")
	_ = ncSetStatusCmd.MarkFlagRequired("record")
	_ = ncSetStatusCmd.MarkFlagRequired("status")

	ncCloseCmd.Flags().String("record", "", "RecordRef, for example nc#12")
	ncCloseCmd.Flags().String("comment", "", "Optional closing comment")
	ncCloseCmd.Flags().String("actor", "", "Acting identity for the audit entry")
	_ = ncCloseCmd.MarkFlagRequired("record")

	ncReopenCmd.Flags().String("record", "", "RecordRef, for example nc#12")
	ncReopenCmd.Flags().String("actor", "", "Acting identity for the audit entry")
	_ = ncReopenCmd.MarkFlagRequired("record")

	ncActionCmd.Flags().String("record", "", "RecordRef, for example nc#12")
	ncActionCmd.Flags().String("action", "", "Action description (min 5 characters)")
	ncActionCmd.Flags().String("actor", "", "Acting identity for the audit entry")
	_ = ncActionCmd.MarkFlagRequired("record")
	_ = ncActionCmd.MarkFlagRequired("action")

	ncDeleteCmd.Flags().String("record", "", "RecordRef, for example nc#12")
	_ = ncDeleteCmd.MarkFlagRequired("record")

	ncStatusCmd.Flags().String("record", "", "RecordRef, for example nc#12")
	_ = ncStatusCmd.MarkFlagRequired("record")
}
