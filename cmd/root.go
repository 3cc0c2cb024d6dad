package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wai",
		Short:         "WorkAI CLI (wai): meetings, transcription and social content",
		Long:          "wai talks to the WorkAI backend: manage your session, connect Zoom and Microsoft Teams calendars, transcribe meeting recordings, and generate social media posts from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newRegisterCmd(app),
		newLogoutCmd(app),
		newStatusCmd(app),
		newConnectCmd(app),
		newDisconnectCmd(app),
		newMeetingsCmd(app),
		newTranscribeCmd(app),
		newGenerateCmd(app),
	)

	return rootCmd
}
