package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/workai-app/workai-cli/internal/domain"
)

type GenerateRequest struct {
	Topic            string `json:"topic"`
	MediaType        string `json:"media_type"`
	InputLanguage    string `json:"input_language"`
	OutputLanguage   string `json:"output_language"`
	ColorPaletteType string `json:"color_palette_type"`
	VideoDuration    string `json:"video_duration,omitempty"`
	UploadedImageURL string `json:"uploadedImageUrl,omitempty"`
}

type creditsSchema struct {
	Used      int `json:"utilisés"`
	Limit     int `json:"limite"`
	Remaining int `json:"restants"`
}

type creditsResponse struct {
	Credits creditsSchema `json:"credits"`
}

type generateResponse struct {
	Content     string         `json:"content"`
	ImageURL    string         `json:"imageUrl"`
	Suggestions []string       `json:"suggestions"`
	Credits     *creditsSchema `json:"credits"`
}

type uploadImageResponse struct {
	URL string `json:"url"`
}

func (c *Client) PredisCredits(ctx context.Context, bearer string) (domain.Credits, error) {
	var resp creditsResponse
	if err := c.do(ctx, requestSpec{
		method: http.MethodGet,
		path:   "/api/predis/credits",
		bearer: bearer,
	}, &resp); err != nil {
		return domain.Credits{}, err
	}

	return creditsFromSchema(resp.Credits), nil
}

// PredisConfig returns the generation configuration as the backend
// serves it; the client does not interpret it beyond display.
func (c *Client) PredisConfig(ctx context.Context, bearer string) (map[string]any, error) {
	var resp map[string]any
	if err := c.do(ctx, requestSpec{
		method: http.MethodGet,
		path:   "/api/predis/config",
		bearer: bearer,
	}, &resp); err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) PredisGenerate(ctx context.Context, bearer string, req GenerateRequest) (domain.GeneratedPost, *domain.Credits, error) {
	var resp generateResponse
	if err := c.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   "/api/predis/generate",
		body:   req,
		bearer: bearer,
	}, &resp); err != nil {
		return domain.GeneratedPost{}, nil, err
	}

	post := domain.GeneratedPost{
		Content:     resp.Content,
		ImageURL:    resp.ImageURL,
		Suggestions: resp.Suggestions,
	}
	if resp.Credits == nil {
		return post, nil, nil
	}

	credits := creditsFromSchema(*resp.Credits)
	return post, &credits, nil
}

// PredisUploadImage sends the image as a multipart form and returns the
// hosted URL to reference from a generate call.
func (c *Client) PredisUploadImage(ctx context.Context, bearer string, filename string, content io.Reader) (string, error) {
	endpoint, err := buildAPIURL(c.BaseURL, "/api/predis/upload-image")
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create multipart field: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("copy image content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize multipart body: %w", err)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read upload response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("upload image: %w", decodeAPIError(resp.StatusCode, data))
	}

	var payload uploadImageResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if payload.URL == "" {
		return "", fmt.Errorf("upload response missing url")
	}

	return payload.URL, nil
}

func creditsFromSchema(s creditsSchema) domain.Credits {
	return domain.Credits{Used: s.Used, Limit: s.Limit, Remaining: s.Remaining}
}
