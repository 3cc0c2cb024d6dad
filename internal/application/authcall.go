package application

import (
	"context"

	"github.com/workai-app/workai-cli/internal/domain"
)

// AuthedCall performs one request with the given provider access token.
type AuthedCall[T any] func(ctx context.Context, accessToken string) (T, error)

// Classifier maps a failed call to a token status.
type Classifier func(err error) domain.TokenStatus

// RefreshFunc exchanges the stored refresh token for a new access
// token. An error means the refresh failed or no refresh token exists.
type RefreshFunc func(ctx context.Context) (string, error)

// WithAuthRetry issues call with accessToken and recovers from an
// expired token exactly once: classify the failure, refresh, and replay
// the call with the new token. Any second failure, a refresh error, or
// a non-expiry classification propagates the original call's error
// unchanged. At most one refresh and one retry ever happen.
func WithAuthRetry[T any](ctx context.Context, accessToken string, call AuthedCall[T], classify Classifier, refresh RefreshFunc) (T, error) {
	result, err := call(ctx, accessToken)
	if err == nil {
		return result, nil
	}

	if classify(err) != domain.TokenStatusExpired {
		return result, err
	}

	newToken, refreshErr := refresh(ctx)
	if refreshErr != nil || newToken == "" {
		return result, err
	}

	return call(ctx, newToken)
}
