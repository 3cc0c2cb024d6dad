package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/workai-app/workai-cli/internal/adapters/backend"
	"github.com/workai-app/workai-cli/internal/application"
	"github.com/workai-app/workai-cli/internal/domain"
)

func newTranscribeCmd(app *app) *cobra.Command {
	var providerName string
	var downloadURL string
	var instruction string
	var meetingID string

	cmd := &cobra.Command{
		Use:   "transcribe",
		Short: "Transcribe and summarize a meeting recording",
		RunE: func(cmd *cobra.Command, _ []string) error {
			provider, err := domain.ParseProvider(providerName)
			if err != nil {
				return err
			}
			if err := application.CheckRecordingURL(downloadURL); err != nil {
				return err
			}

			req := backend.TranscribeRequest{
				DownloadURL:        downloadURL,
				SummaryInstruction: instruction,
				MeetingID:          meetingID,
			}

			var transcript domain.Transcript
			err = runWithSpinner(cmd.Context(), cmd.OutOrStdout(), "Transcribing recording...",
				func(ctx context.Context) error {
					var callErr error
					transcript, callErr = application.CallWithProviderAuth(ctx, app.providers, provider,
						func(ctx context.Context, accessToken string) (domain.Transcript, error) {
							if provider == domain.ProviderTeams {
								return app.backend.TeamsTranscribe(ctx, accessToken, req)
							}
							return app.backend.ZoomTranscribe(ctx, accessToken, req)
						})
					return callErr
				})
			if err != nil {
				return fmt.Errorf("transcribe recording: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "Transcript:")
			_, _ = fmt.Fprintln(out, transcript.Text)
			if transcript.Summary != "" {
				_, _ = fmt.Fprintln(out)
				_, _ = fmt.Fprintln(out, "Summary:")
				_, _ = fmt.Fprintln(out, transcript.Summary)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&providerName, "provider", "zoom", "Meeting provider (zoom or teams)")
	cmd.Flags().StringVar(&downloadURL, "url", "", "Recording download URL")
	cmd.Flags().StringVar(&instruction, "instruction", "", "Extra instruction for the summary")
	cmd.Flags().StringVar(&meetingID, "meeting", "", "Meeting ID the recording belongs to")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}
