package oauthreturn

import (
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workai-app/workai-cli/internal/domain"
)

func TestParseReturnZoomGrant(t *testing.T) {
	t.Parallel()

	result, err := ParseReturn(url.Values{
		"access_token":  {"zoom-access"},
		"refresh_token": {"zoom-refresh"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderZoom, result.Provider)
	assert.Equal(t, "zoom-access", result.Pair.AccessToken)
	assert.Equal(t, "zoom-refresh", result.Pair.RefreshToken)
	assert.NoError(t, result.Err)
}

func TestParseReturnTeamsGrantWinsOverZoom(t *testing.T) {
	t.Parallel()

	result, err := ParseReturn(url.Values{
		"access_token":        {"zoom-access"},
		"teams_access_token":  {"teams-access"},
		"teams_refresh_token": {"teams-refresh"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderTeams, result.Provider)
	assert.Equal(t, "teams-access", result.Pair.AccessToken)
	assert.Equal(t, "teams-refresh", result.Pair.RefreshToken)
}

func TestParseReturnGrantWithoutRefreshToken(t *testing.T) {
	t.Parallel()

	result, err := ParseReturn(url.Values{"access_token": {"zoom-access"}})
	require.NoError(t, err)
	assert.Equal(t, "zoom-access", result.Pair.AccessToken)
	assert.Empty(t, result.Pair.RefreshToken)
	assert.True(t, result.Pair.Connected())
	assert.False(t, result.Pair.Refreshable())
}

func TestParseReturnErrorParam(t *testing.T) {
	t.Parallel()

	result, err := ParseReturn(url.Values{"error": {"access_denied"}})
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderZoom, result.Provider)
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "access_denied")
	assert.Empty(t, result.Pair.AccessToken)
}

func TestParseReturnNothingRecognized(t *testing.T) {
	t.Parallel()

	_, err := ParseReturn(url.Values{"state": {"abc"}})
	require.ErrorIs(t, err, ErrNoReturnParams)
}

func TestCallbackServerDeliversGrant(t *testing.T) {
	t.Parallel()

	server, err := StartCallbackServer("")
	require.NoError(t, err)
	defer server.Close()

	go func() {
		resp, reqErr := http.Get(server.RedirectURI() + "?access_token=zoom-access&refresh_token=zoom-refresh")
		if reqErr == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}
	}()

	result, err := server.WaitForReturn(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderZoom, result.Provider)
	assert.Equal(t, "zoom-access", result.Pair.AccessToken)
}

func TestCallbackServerSurfacesConsentFailure(t *testing.T) {
	t.Parallel()

	server, err := StartCallbackServer("")
	require.NoError(t, err)
	defer server.Close()

	go func() {
		resp, reqErr := http.Get(server.RedirectURI() + "?error=access_denied")
		if reqErr == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}
	}()

	_, err = server.WaitForReturn(5 * time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_denied")
}

func TestCallbackServerTimesOut(t *testing.T) {
	t.Parallel()

	server, err := StartCallbackServer("")
	require.NoError(t, err)

	_, err = server.WaitForReturn(50 * time.Millisecond)
	require.ErrorIs(t, err, ErrReturnTimeout)
}
