package cmd

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/workai-app/workai-cli/internal/adapters/oauthreturn"
	"github.com/workai-app/workai-cli/internal/domain"
)

func newConnectCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connect <zoom|teams>",
		Short: "Connect a meeting provider through its consent flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := domain.ParseProvider(args[0])
			if err != nil {
				return err
			}
			return runConnect(cmd, app, provider)
		},
	}

	return cmd
}

func runConnect(cmd *cobra.Command, app *app, provider domain.Provider) error {
	server, err := oauthreturn.StartCallbackServer(app.oauthListen)
	if err != nil {
		return fmt.Errorf("start oauth return server: %w", err)
	}

	consentURL, err := buildConsentURL(app.backend.BaseURL, provider, server.RedirectURI())
	if err != nil {
		_ = server.Close()
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Open this URL to connect %s:\n%s\n", provider, consentURL)

	result, err := server.WaitForReturn(app.oauthTimeout)
	if err != nil {
		return fmt.Errorf("wait for oauth return: %w", err)
	}
	if result.Provider != provider {
		return fmt.Errorf("oauth return was for %s, expected %s", result.Provider, provider)
	}

	if err := app.providers.StorePair(cmd.Context(), result.Provider, result.Pair); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Connected %s\n", provider)
	return nil
}

func buildConsentURL(baseURL string, provider domain.Provider, redirectURI string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api url: %w", err)
	}
	parsed = parsed.JoinPath("api", string(provider), "oauth")

	q := parsed.Query()
	q.Set("redirect_uri", redirectURI)
	parsed.RawQuery = q.Encode()

	return parsed.String(), nil
}

func newDisconnectCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect <zoom|teams>",
		Short: "Disconnect a meeting provider and drop its tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := domain.ParseProvider(args[0])
			if err != nil {
				return err
			}

			// Zoom has a backend-side disconnect; it is best effort
			// so the local tokens go away even when it fails.
			if provider == domain.ProviderZoom {
				if err := app.sessions.Bootstrap(cmd.Context()); err == nil {
					if bearer, err := app.sessions.Bearer(); err == nil {
						if err := app.backend.ZoomDisconnect(cmd.Context(), bearer); err != nil {
							app.logger.Debug().Err(err).Msg("backend zoom disconnect failed")
						}
					}
				}
			}

			if err := app.providers.ClearPair(cmd.Context(), provider); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Disconnected %s\n", provider)
			return nil
		},
	}
}
