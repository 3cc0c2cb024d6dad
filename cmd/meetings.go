package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/workai-app/workai-cli/internal/adapters/backend"
	"github.com/workai-app/workai-cli/internal/application"
	"github.com/workai-app/workai-cli/internal/domain"
)

func newMeetingsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meetings",
		Short: "Browse provider meetings and recordings",
	}

	cmd.AddCommand(newMeetingsListCmd(app), newMeetingsRecordingsCmd(app))

	return cmd
}

func newMeetingsListCmd(app *app) *cobra.Command {
	var providerName string
	var listType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List upcoming or past meetings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			provider, err := domain.ParseProvider(providerName)
			if err != nil {
				return err
			}
			kind, err := parseMeetingListKind(listType)
			if err != nil {
				return err
			}

			meetings, err := application.CallWithProviderAuth(cmd.Context(), app.providers, provider,
				func(ctx context.Context, accessToken string) ([]domain.Meeting, error) {
					if provider == domain.ProviderTeams {
						return app.backend.TeamsEvents(ctx, accessToken)
					}
					return app.backend.ZoomMeetings(ctx, accessToken, kind)
				})
			if err != nil {
				return fmt.Errorf("list %s meetings: %w", provider, err)
			}

			return printMeetings(cmd, app.clock.Now(), meetings)
		},
	}

	cmd.Flags().StringVar(&providerName, "provider", "zoom", "Meeting provider (zoom or teams)")
	cmd.Flags().StringVar(&listType, "type", "upcoming", "Which meetings to list (upcoming or past)")

	return cmd
}

func newMeetingsRecordingsCmd(app *app) *cobra.Command {
	var providerName string

	cmd := &cobra.Command{
		Use:   "recordings <meeting-id>",
		Short: "List a meeting's cloud recordings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := domain.ParseProvider(providerName)
			if err != nil {
				return err
			}
			meetingID := args[0]

			recordings, err := application.CallWithProviderAuth(cmd.Context(), app.providers, provider,
				func(ctx context.Context, accessToken string) ([]domain.Recording, error) {
					if provider == domain.ProviderTeams {
						return app.backend.TeamsRecordings(ctx, accessToken, meetingID)
					}
					return app.backend.ZoomRecordings(ctx, accessToken, meetingID)
				})
			if err != nil {
				return fmt.Errorf("list %s recordings: %w", provider, err)
			}

			return printRecordings(cmd, recordings)
		},
	}

	cmd.Flags().StringVar(&providerName, "provider", "zoom", "Meeting provider (zoom or teams)")

	return cmd
}

func parseMeetingListKind(raw string) (backend.MeetingListKind, error) {
	switch strings.ToLower(raw) {
	case "upcoming":
		return backend.MeetingsUpcoming, nil
	case "past":
		return backend.MeetingsPast, nil
	default:
		return "", fmt.Errorf("unsupported meeting list type %q (want upcoming or past)", raw)
	}
}

func printMeetings(cmd *cobra.Command, now time.Time, meetings []domain.Meeting) error {
	if len(meetings) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No meetings found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTOPIC\tSTART\tDURATION")
	for _, meeting := range meetings {
		start := ""
		if !meeting.StartTime.IsZero() {
			start = meeting.StartTime.Local().Format(time.RFC1123)
			if until := meeting.StartTime.Sub(now); until > 0 {
				start = fmt.Sprintf("%s (in %s)", start, until.Round(time.Minute))
			}
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%dm\n", meeting.ID, meeting.Topic, start, int(meeting.Duration.Minutes()))
	}
	return w.Flush()
}

func printRecordings(cmd *cobra.Command, recordings []domain.Recording) error {
	if len(recordings) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No recordings found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TYPE\tRECORDED\tDOWNLOAD URL")
	for _, recording := range recordings {
		recorded := ""
		if !recording.RecordedAt.IsZero() {
			recorded = recording.RecordedAt.Local().Format(time.RFC1123)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", recording.FileType, recorded, recording.DownloadURL)
	}
	return w.Flush()
}
