package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workai-app/workai-cli/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, server.Client(), zerolog.Nop())
	require.NoError(t, err)
	return client, server
}

func TestNewClientRejectsInvalidBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient("", nil, zerolog.Nop())
	require.Error(t, err)

	_, err = NewClient("ftp://example.com", nil, zerolog.Nop())
	require.Error(t, err)
}

func TestLoginDecodesTokenAndUser(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)

		var req loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ada@example.com", req.Email)

		_, _ = w.Write([]byte(`{"success":true,"data":{"token":"session-1","user":{"_id":"u1","firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","plan":"pro","isYearly":true,"isSubscriber":true}}}`))
	}))

	session, err := client.Login(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "session-1", session.BearerToken)
	assert.Equal(t, "u1", session.User.ID)
	assert.True(t, session.User.IsSubscriber)
}

func TestMeSendsSessionBearer(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/me", r.URL.Path)
		assert.Equal(t, "Bearer session-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":{"user":{"_id":"u1","email":"ada@example.com","plan":"starter"}}}`))
	}))

	user, err := client.Me(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "starter", user.Plan)
}

func TestMeSurfacesAPIError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid session"}`))
	}))

	_, err := client.Me(context.Background(), "stale")
	require.Error(t, err)

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid session", apiErr.Message)
}

func TestZoomMeetingsSendsTypeQueryAndProviderBearer(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/zoom/meetings", r.URL.Path)
		assert.Equal(t, "past", r.URL.Query().Get("type"))
		assert.Equal(t, "Bearer zoom-at", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"meetings":[{"id":"m1","topic":"Standup","start_time":"2026-08-30T09:00:00Z","duration":30,"join_url":"https://zoom.example/m1"}]}`))
	}))

	meetings, err := client.ZoomMeetings(context.Background(), "zoom-at", MeetingsPast)
	require.NoError(t, err)
	require.Len(t, meetings, 1)
	assert.Equal(t, "Standup", meetings[0].Topic)
	assert.Equal(t, domain.ProviderZoom, meetings[0].Provider)
	assert.False(t, meetings[0].StartTime.IsZero())
}

func TestZoomExpiredSentinelDecodesAsExpired(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":124,"message":"Access token is expired."}`))
	}))

	_, err := client.ZoomMeetings(context.Background(), "stale", MeetingsUpcoming)
	require.Error(t, err)
	assert.Equal(t, domain.TokenStatusExpired, domain.ClassifyAuthError(domain.ProviderZoom, err))
}

func TestZoomRefreshTokenPostsStoredRefreshToken(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/zoom/refresh-token", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "zoom-rt", req["refresh_token"])

		_, _ = w.Write([]byte(`{"access_token":"zoom-at-2","refresh_token":"zoom-rt-2"}`))
	}))

	pair, err := client.ZoomRefreshToken(context.Background(), "zoom-rt")
	require.NoError(t, err)
	assert.Equal(t, "zoom-at-2", pair.AccessToken)
	assert.Equal(t, "zoom-rt-2", pair.RefreshToken)
}

func TestTeamsEventsDecodeAndInvalidGrantClassification(t *testing.T) {
	t.Parallel()

	calls := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			_, _ = w.Write([]byte(`{"meetings":[{"id":"e1","topic":"Retro","start_time":"2026-08-29T15:00:00Z"}]}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"InvalidAuthenticationToken","error_description":"token is expired"}`))
	}))

	meetings, err := client.TeamsEvents(context.Background(), "teams-at")
	require.NoError(t, err)
	require.Len(t, meetings, 1)
	assert.Equal(t, domain.ProviderTeams, meetings[0].Provider)

	_, err = client.TeamsEvents(context.Background(), "teams-at")
	require.Error(t, err)
	assert.Equal(t, domain.TokenStatusExpired, domain.ClassifyAuthError(domain.ProviderTeams, err))
}

func TestTeamsTranscribePostsInstructionAndMeetingID(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/teams/transcribe-audio", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://cdn.example/rec.mp4", req["downloadUrl"])
		assert.Equal(t, "short summary", req["summaryInstruction"])
		assert.Equal(t, "e1", req["meetingId"])

		_, _ = w.Write([]byte(`{"transcription":"hello world","summary":"greeting"}`))
	}))

	transcript, err := client.TeamsTranscribe(context.Background(), "teams-at", TranscribeRequest{
		DownloadURL:        "https://cdn.example/rec.mp4",
		SummaryInstruction: "short summary",
		MeetingID:          "e1",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello world", transcript.Text)
	assert.Equal(t, "greeting", transcript.Summary)
}

func TestPredisCreditsDecodesFrenchFieldNames(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/predis/credits", r.URL.Path)
		assert.Equal(t, "Bearer session-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"credits":{"utilisés":3,"limite":10,"restants":7}}`))
	}))

	credits, err := client.PredisCredits(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, domain.Credits{Used: 3, Limit: 10, Remaining: 7}, credits)
}

func TestPredisGenerateReturnsPostAndUpdatedCredits(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "spa opening ad", req.Topic)
		assert.Equal(t, "single_image", req.MediaType)

		_, _ = w.Write([]byte(`{"content":"Relax, Refresh, Renew","imageUrl":"https://cdn.example/p.png","suggestions":["a","b"],"credits":{"utilisés":4,"limite":10,"restants":6}}`))
	}))

	post, credits, err := client.PredisGenerate(context.Background(), "session-1", GenerateRequest{
		Topic:     "spa opening ad",
		MediaType: "single_image",
	})
	require.NoError(t, err)
	assert.Equal(t, "Relax, Refresh, Renew", post.Content)
	assert.Equal(t, []string{"a", "b"}, post.Suggestions)
	require.NotNil(t, credits)
	assert.Equal(t, 6, credits.Remaining)
}

func TestPredisUploadImageSendsMultipartFile(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/predis/upload-image", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "banner.png", header.Filename)

		_, _ = w.Write([]byte(`{"url":"https://cdn.example/banner.png"}`))
	}))

	url, err := client.PredisUploadImage(context.Background(), "session-1", "banner.png", strings.NewReader("fake-png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/banner.png", url)
}

func TestUploadImageMissingURLFails(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))

	_, err := client.PredisUploadImage(context.Background(), "session-1", "banner.png", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing url")
}

func TestNonJSONErrorBodyStillYieldsStatusError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream blew up"))
	}))

	_, err := client.PredisCredits(context.Background(), "session-1")
	require.Error(t, err)

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}
