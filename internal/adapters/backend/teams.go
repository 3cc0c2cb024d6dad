package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/workai-app/workai-cli/internal/domain"
)

type teamsRecordingsResponse struct {
	Recordings []recordingSchema `json:"recordings"`
}

// TeamsRefreshToken exchanges a refresh token for a rotated pair. The
// wire shape matches the Zoom endpoint.
func (c *Client) TeamsRefreshToken(ctx context.Context, refreshToken string) (TokenPairResponse, error) {
	var resp TokenPairResponse
	if err := c.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   "/api/teams/refresh-token",
		body:   refreshTokenRequest{RefreshToken: refreshToken},
	}, &resp); err != nil {
		return TokenPairResponse{}, err
	}

	return resp, nil
}

// TeamsEvents lists calendar events; the backend normalizes them into
// the same meeting shape as Zoom.
func (c *Client) TeamsEvents(ctx context.Context, accessToken string) ([]domain.Meeting, error) {
	var resp meetingsResponse
	if err := c.do(ctx, requestSpec{
		method: http.MethodGet,
		path:   "/api/teams/events",
		bearer: accessToken,
	}, &resp); err != nil {
		return nil, err
	}

	return meetingsFromSchema(resp.Meetings, domain.ProviderTeams), nil
}

func (c *Client) TeamsRecordings(ctx context.Context, accessToken string, meetingID string) ([]domain.Recording, error) {
	var resp teamsRecordingsResponse
	if err := c.do(ctx, requestSpec{
		method: http.MethodGet,
		path:   "/api/teams/meetings/" + url.PathEscape(meetingID) + "/recordings",
		bearer: accessToken,
	}, &resp); err != nil {
		return nil, err
	}

	return recordingsFromSchema(resp.Recordings, meetingID), nil
}

func (c *Client) TeamsTranscribe(ctx context.Context, accessToken string, req TranscribeRequest) (domain.Transcript, error) {
	var resp transcribeResponse
	if err := c.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   "/api/teams/transcribe-audio",
		body:   req,
		bearer: accessToken,
	}, &resp); err != nil {
		return domain.Transcript{}, err
	}

	return domain.Transcript{Text: resp.Transcription, Summary: resp.Summary}, nil
}
