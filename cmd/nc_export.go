package cmd

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"nctrack/internal/bootstrap"
	"nctrack/internal/bootstrap/logging"
	"nctrack/internal/errs"
	"nctrack/internal/usecase/nonconformity"
)

var ncExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export nonconformities as CSV, honouring the same filters as list",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *nonconformity.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		outPath, _ := cmd.Flags().GetString("out")

		rows, err := svc.Export(ctx, queryInputFromFlags(cmd))
		if err != nil {
			logging.Error(ctx, "export nonconformities failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "export nonconformities")
		}

		writer, closeFn, err := resolveExportWriter(cmd, outPath)
		if err != nil {
			return err
		}

		if err := writeExportCSV(writer, rows); err != nil {
			_ = closeFn()
			return errs.Wrap(err, "write export output")
		}
		if err := closeFn(); err != nil {
			return errs.Wrap(err, "close export output")
		}
		return nil
	}),
}

func writeExportCSV(w io.Writer, rows []nonconformity.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(nonconformity.ExportHeader()); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row.Fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func resolveExportWriter(cmd *cobra.Command, outPath string) (io.Writer, func() error, error) {
	trimmed := strings.TrimSpace(outPath)
	if trimmed == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}

	f, err := os.Create(trimmed)
	if err != nil {
		return nil, nil, errs.Wrapf(err, "create export output file %s", trimmed)
	}
	return f, f.Close, nil
}

func init() {
	ncCmd.AddCommand(ncExportCmd)

	registerQueryFlags(ncExportCmd)
	ncExportCmd.Flags().String("out", "", "Output file path (default: stdout)")
}
