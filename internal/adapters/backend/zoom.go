package backend

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/workai-app/workai-cli/internal/domain"
)

// MeetingListKind selects which window of meetings the backend returns.
type MeetingListKind string

const (
	MeetingsUpcoming MeetingListKind = "upcoming"
	MeetingsPast     MeetingListKind = "past"
)

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type meetingSchema struct {
	ID        string `json:"id"`
	Topic     string `json:"topic"`
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
	JoinURL   string `json:"join_url"`
}

type meetingsResponse struct {
	Meetings []meetingSchema `json:"meetings"`
}

type recordingSchema struct {
	FileType       string `json:"file_type"`
	DownloadURL    string `json:"download_url"`
	RecordingStart string `json:"recording_start"`
}

type zoomRecordingsResponse struct {
	RecordingFiles []recordingSchema `json:"recording_files"`
}

type TranscribeRequest struct {
	DownloadURL        string `json:"downloadUrl"`
	SummaryInstruction string `json:"summaryInstruction"`
	MeetingID          string `json:"meetingId,omitempty"`
}

type transcribeResponse struct {
	Transcription string `json:"transcription"`
	Summary       string `json:"summary"`
}

// ZoomDisconnect revokes the Zoom connection server side. It
// authenticates with the session bearer, not a provider token.
func (c *Client) ZoomDisconnect(ctx context.Context, bearer string) error {
	return c.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   "/api/zoom/disconnect",
		body:   struct{}{},
		bearer: bearer,
	}, nil)
}

// ZoomRefreshToken exchanges a refresh token for a rotated pair.
func (c *Client) ZoomRefreshToken(ctx context.Context, refreshToken string) (TokenPairResponse, error) {
	var resp TokenPairResponse
	if err := c.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   "/api/zoom/refresh-token",
		body:   refreshTokenRequest{RefreshToken: refreshToken},
	}, &resp); err != nil {
		return TokenPairResponse{}, err
	}

	return resp, nil
}

func (c *Client) ZoomMeetings(ctx context.Context, accessToken string, kind MeetingListKind) ([]domain.Meeting, error) {
	var resp meetingsResponse
	if err := c.do(ctx, requestSpec{
		method: http.MethodGet,
		path:   "/api/zoom/meetings",
		query:  url.Values{"type": []string{string(kind)}},
		bearer: accessToken,
	}, &resp); err != nil {
		return nil, err
	}

	return meetingsFromSchema(resp.Meetings, domain.ProviderZoom), nil
}

func (c *Client) ZoomRecordings(ctx context.Context, accessToken string, meetingID string) ([]domain.Recording, error) {
	var resp zoomRecordingsResponse
	if err := c.do(ctx, requestSpec{
		method: http.MethodGet,
		path:   "/api/zoom/meetings/" + url.PathEscape(meetingID) + "/recordings",
		bearer: accessToken,
	}, &resp); err != nil {
		return nil, err
	}

	return recordingsFromSchema(resp.RecordingFiles, meetingID), nil
}

func (c *Client) ZoomTranscribe(ctx context.Context, accessToken string, req TranscribeRequest) (domain.Transcript, error) {
	var resp transcribeResponse
	if err := c.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   "/api/zoom/transcribe-audio",
		body:   req,
		bearer: accessToken,
	}, &resp); err != nil {
		return domain.Transcript{}, err
	}

	return domain.Transcript{Text: resp.Transcription, Summary: resp.Summary}, nil
}

func meetingsFromSchema(meetings []meetingSchema, provider domain.Provider) []domain.Meeting {
	result := make([]domain.Meeting, 0, len(meetings))
	for _, m := range meetings {
		result = append(result, domain.Meeting{
			ID:        m.ID,
			Topic:     m.Topic,
			StartTime: parseTime(m.StartTime),
			Duration:  time.Duration(m.Duration) * time.Minute,
			JoinURL:   m.JoinURL,
			Provider:  provider,
		})
	}

	return result
}

func recordingsFromSchema(recordings []recordingSchema, meetingID string) []domain.Recording {
	result := make([]domain.Recording, 0, len(recordings))
	for _, r := range recordings {
		result = append(result, domain.Recording{
			MeetingID:   meetingID,
			FileType:    r.FileType,
			DownloadURL: r.DownloadURL,
			RecordedAt:  parseTime(r.RecordingStart),
		})
	}

	return result
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}
