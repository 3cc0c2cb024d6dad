package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	statusadapter "github.com/workai-app/workai-cli/internal/adapters/render/status"
	"github.com/workai-app/workai-cli/internal/domain"
)

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool
	var noColor bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show session, provider connections and content credits",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := buildStatusReport(cmd.Context(), app)
			if err != nil {
				return err
			}

			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(report)
			}

			rendered, err := app.statusRenderer(report, statusadapter.RenderOptions{NoColor: noColor})
			if err != nil {
				return fmt.Errorf("render status: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the status as JSON")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

func buildStatusReport(ctx context.Context, app *app) (statusadapter.Report, error) {
	if err := app.sessions.Bootstrap(ctx); err != nil {
		return statusadapter.Report{}, fmt.Errorf("restore session: %w", err)
	}

	report := statusadapter.Report{State: app.sessions.State()}
	if session, ok := app.sessions.Current(); ok {
		report.User = session.User
	}

	for _, provider := range domain.Providers() {
		connected, err := app.providers.Connected(ctx, provider)
		if err != nil {
			return statusadapter.Report{}, fmt.Errorf("check %s connection: %w", provider, err)
		}
		report.Connections = append(report.Connections, statusadapter.Connection{
			Provider:  provider,
			Connected: connected,
		})
	}

	// Credits are decoration on the status view; an unreachable
	// credits endpoint must not hide the rest of it.
	if bearer, err := app.sessions.Bearer(); err == nil {
		if credits, err := app.backend.PredisCredits(ctx, bearer); err == nil {
			report.Credits = &credits
		} else {
			app.logger.Debug().Err(err).Msg("credits unavailable for status view")
		}
	}

	return report, nil
}
