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

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the status, severity, category and area vocabularies",
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert catalog entries from a TOML vocabulary file",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *nonconformity.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		seedFile, _ := cmd.Flags().GetString("file")
		result, err := svc.SeedCatalogs(ctx, seedFile)
		if err != nil {
			logging.Error(ctx, "seed catalogs failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "seed catalogs")
		}

		if _, err := fmt.Fprintf(
			cmd.OutOrStdout(),
			"catalogs seeded: statuses=%d severities=%d categories=%d areas=%d\n",
			result.Statuses,
			result.Severities,
			result.Categories,
			result.Areas,
		); err != nil {
			return errs.Wrap(err, "write seed output")
		}
		return nil
	}),
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all catalog entries with their ids",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *nonconformity.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		listing, err := svc.ListCatalogs(ctx)
		if err != nil {
			logging.Error(ctx, "list catalogs failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list catalogs")
		}

		out := cmd.OutOrStdout()
		for _, status := range listing.Statuses {
			kind := "open"
			if status.IsClosed {
				kind = "closed"
			}
			if _, err := fmt.Fprintf(out, "status %d label=%s kind=%s\n", status.ID, status.Label, kind); err != nil {
				return errs.Wrap(err, "write catalog output")
			}
		}
		for _, severity := range listing.Severities {
			if _, err := fmt.Fprintf(out, "severity %d label=%s\n", severity.ID, severity.Label); err != nil {
				return errs.Wrap(err, "write catalog output")
			}
		}
		for _, category := range listing.Categories {
			if _, err := fmt.Fprintf(out, "category %d label=%s\n", category.ID, category.Label); err != nil {
				return errs.Wrap(err, "write catalog output")
			}
		}
		for _, area := range listing.Areas {
			if _, err := fmt.Fprintf(out, "area %d label=%s coding=%s\n", area.ID, area.Label, area.Coding); err != nil {
				return errs.Wrap(err, "write catalog output")
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogSeedCmd)
	catalogCmd.AddCommand(catalogListCmd)

	catalogSeedCmd.Flags().String("file", "catalog.toml", "Path to the TOML vocabulary file")
}
