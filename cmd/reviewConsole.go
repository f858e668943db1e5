package cmd

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"nctrack/internal/bootstrap"
	"nctrack/internal/bootstrap/logging"
	"nctrack/internal/errs"
	"nctrack/internal/usecase/nonconformity"
	"nctrack/internal/usecase/reviewconsole"
)

var consoleReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Start the nonconformity review console",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *nonconformity.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		actor, _ := cmd.Flags().GetString("actor")
		scope, _ := cmd.Flags().GetString("scope")
		refreshInterval, _ := cmd.Flags().GetDuration("refresh-interval")
		if refreshInterval <= 0 {
			refreshInterval = 5 * time.Second
		}

		model := reviewconsole.NewReviewModel(ctx, svc, reviewconsole.Options{
			Actor:           actor,
			ScopeFilter:     scope,
			RefreshInterval: refreshInterval,
		})

		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return errs.Wrap(err, "run review console")
		}
		return nil
	}),
}

func init() {
	consoleCmd.AddCommand(consoleReviewCmd)
	consoleReviewCmd.Flags().String("actor", "reviewer", "Acting identity for console actions")
	consoleReviewCmd.Flags().String("scope", "", "Optional scope filter (open|closed|all)")
	consoleReviewCmd.Flags().Duration("refresh-interval", 5*time.Second, "Auto refresh interval")
}
