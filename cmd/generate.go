package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/workai-app/workai-cli/internal/adapters/backend"
	"github.com/workai-app/workai-cli/internal/application"
	"github.com/workai-app/workai-cli/internal/domain"
)

func newGenerateCmd(app *app) *cobra.Command {
	var req backend.GenerateRequest

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a social media post",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bearer, err := sessionBearer(cmd.Context(), app)
			if err != nil {
				return err
			}

			var post domain.GeneratedPost
			var credits *domain.Credits
			err = runWithSpinner(cmd.Context(), cmd.OutOrStdout(), "Generating post...",
				func(ctx context.Context) error {
					var callErr error
					post, credits, callErr = app.backend.PredisGenerate(ctx, bearer, req)
					return callErr
				})
			if err != nil {
				return fmt.Errorf("generate post: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, post.Content)
			if post.ImageURL != "" {
				_, _ = fmt.Fprintf(out, "\nImage: %s\n", post.ImageURL)
			}
			for _, suggestion := range post.Suggestions {
				_, _ = fmt.Fprintf(out, "- %s\n", suggestion)
			}
			if credits != nil {
				_, _ = fmt.Fprintf(out, "\nCredits left: %d/%d\n", credits.Remaining, credits.Limit)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Topic, "topic", "", "What the post is about")
	cmd.Flags().StringVar(&req.MediaType, "media-type", "single_image", "Generated media type")
	cmd.Flags().StringVar(&req.InputLanguage, "input-language", "english", "Language of the topic text")
	cmd.Flags().StringVar(&req.OutputLanguage, "output-language", "english", "Language of the generated post")
	cmd.Flags().StringVar(&req.ColorPaletteType, "palette", "ai_suggested", "Color palette strategy")
	cmd.Flags().StringVar(&req.VideoDuration, "video-duration", "", "Video duration (video media types only)")
	cmd.Flags().StringVar(&req.UploadedImageURL, "image-url", "", "Previously uploaded image to feature")
	_ = cmd.MarkFlagRequired("topic")

	cmd.AddCommand(newGenerateCreditsCmd(app), newGenerateConfigCmd(app), newGenerateUploadImageCmd(app))

	return cmd
}

func newGenerateCreditsCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "credits",
		Short: "Show remaining content generation credits",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bearer, err := sessionBearer(cmd.Context(), app)
			if err != nil {
				return err
			}

			credits, err := app.backend.PredisCredits(cmd.Context(), bearer)
			if err != nil {
				return fmt.Errorf("fetch credits: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Used %d of %d credits, %d left\n",
				credits.Used, credits.Limit, credits.Remaining)
			return nil
		},
	}
}

func newGenerateConfigCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the backend's generation configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bearer, err := sessionBearer(cmd.Context(), app)
			if err != nil {
				return err
			}

			config, err := app.backend.PredisConfig(cmd.Context(), bearer)
			if err != nil {
				return fmt.Errorf("fetch generation config: %w", err)
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(config)
		},
	}
}

func newGenerateUploadImageCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload-image <path>",
		Short: "Upload an image to feature in generated posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bearer, err := sessionBearer(cmd.Context(), app)
			if err != nil {
				return err
			}

			path := args[0]
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat image file: %w", err)
			}
			if err := application.CheckImageUpload(path, info.Size()); err != nil {
				return err
			}

			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open image file: %w", err)
			}
			defer func() { _ = file.Close() }()

			url, err := app.backend.PredisUploadImage(cmd.Context(), bearer, filepath.Base(path), file)
			if err != nil {
				return fmt.Errorf("upload image: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}

func sessionBearer(ctx context.Context, app *app) (string, error) {
	if err := app.sessions.Bootstrap(ctx); err != nil {
		return "", fmt.Errorf("restore session: %w", err)
	}
	bearer, err := app.sessions.Bearer()
	if err != nil {
		return "", fmt.Errorf("a WorkAI session is required, run `wai login`: %w", err)
	}
	return bearer, nil
}
