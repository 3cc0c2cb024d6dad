package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/workai-app/workai-cli/internal/domain"
)

const maxResponseBytes = 1 << 20

// Client talks to the WorkAI backend. Every call takes a context; when
// the context carries no deadline a default per-request timeout is
// applied so no call can hang indefinitely.
type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	Logger         zerolog.Logger
	RequestTimeout time.Duration
}

func NewClient(baseURL string, httpClient *http.Client, logger zerolog.Logger) (*Client, error) {
	if _, err := buildAPIURL(baseURL, "/"); err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		BaseURL:    baseURL,
		HTTPClient: httpClient,
		Logger:     logger,
	}, nil
}

type requestSpec struct {
	method string
	path   string
	query  url.Values
	body   any
	bearer string
}

func (c *Client) do(ctx context.Context, spec requestSpec, out any) error {
	endpoint, err := buildAPIURL(c.BaseURL, spec.path)
	if err != nil {
		return err
	}
	if len(spec.query) > 0 {
		endpoint += "?" + spec.query.Encode()
	}

	var bodyReader io.Reader
	if spec.body != nil {
		payload, err := json.Marshal(spec.body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, spec.method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if spec.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if spec.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+spec.bearer)
	}

	c.Logger.Debug().Str("method", spec.method).Str("path", spec.path).Msg("backend request")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", spec.method, spec.path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := decodeAPIError(resp.StatusCode, data)
		c.Logger.Debug().Str("path", spec.path).Int("status", resp.StatusCode).Msg("backend error response")
		return fmt.Errorf("%s %s: %w", spec.method, spec.path, apiErr)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}

	return nil
}

func decodeAPIError(statusCode int, data []byte) *domain.APIError {
	apiErr := &domain.APIError{}
	if len(data) > 0 {
		// A body that is not the backend's JSON error shape still
		// yields a usable status-only error.
		_ = json.Unmarshal(data, apiErr)
	}
	apiErr.StatusCode = statusCode
	return apiErr
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}
	if path == "" {
		return "", errors.New("api path is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	return strings.TrimRight(parsed.String(), "/") + "/" + strings.TrimLeft(path, "/"), nil
}
