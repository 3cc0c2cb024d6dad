package domain

import (
	"errors"
	"fmt"
	"strings"
)

// APIError is a non-2xx response from the WorkAI backend. The upstream
// providers surface auth failures through different body fields, so all
// of them are captured here and interpreted by ClassifyAuthError.
type APIError struct {
	StatusCode       int
	Code             int    `json:"code"`
	Message          string `json:"message"`
	ErrorID          string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Details          string `json:"details"`
}

func (e *APIError) Error() string {
	switch {
	case e.Details != "":
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Details)
	case e.Message != "":
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
	case e.ErrorID != "" && e.ErrorDescription != "":
		return fmt.Sprintf("api error (status %d): %s: %s", e.StatusCode, e.ErrorID, e.ErrorDescription)
	case e.ErrorID != "":
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.ErrorID)
	default:
		return fmt.Sprintf("api error (status %d)", e.StatusCode)
	}
}

// TokenStatus is the closed classification of an authenticated-call
// failure for one provider.
type TokenStatus string

const (
	TokenStatusExpired TokenStatus = "expired"
	TokenStatusInvalid TokenStatus = "invalid"
	TokenStatusOther   TokenStatus = "other"
)

// Zoom reports an expired access token with a numeric sentinel code or
// a fixed message, Teams with OAuth-style error identifiers.
const (
	zoomExpiredCode    = 124
	zoomExpiredMessage = "Access token is expired."

	teamsInvalidGrant = "invalid_grant"
	teamsInvalidToken = "InvalidAuthenticationToken"
)

// ClassifyAuthError maps an error from an authenticated provider call
// to a TokenStatus. Anything that is not an *APIError is transport-level
// and classified as other.
func ClassifyAuthError(provider Provider, err error) TokenStatus {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return TokenStatusOther
	}

	switch provider {
	case ProviderZoom:
		return classifyZoomError(apiErr)
	case ProviderTeams:
		return classifyTeamsError(apiErr)
	default:
		return TokenStatusOther
	}
}

func classifyZoomError(apiErr *APIError) TokenStatus {
	if apiErr.Code == zoomExpiredCode || apiErr.Message == zoomExpiredMessage {
		return TokenStatusExpired
	}
	return TokenStatusOther
}

func classifyTeamsError(apiErr *APIError) TokenStatus {
	switch apiErr.ErrorID {
	case teamsInvalidGrant, teamsInvalidToken:
		return TokenStatusExpired
	}
	if strings.Contains(apiErr.ErrorDescription, "expired") || strings.Contains(apiErr.Message, "expired") {
		return TokenStatusExpired
	}
	if apiErr.ErrorID != "" && apiErr.StatusCode == 401 {
		return TokenStatusInvalid
	}
	return TokenStatusOther
}
