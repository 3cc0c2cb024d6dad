package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/workai-app/workai-cli/internal/domain"
	"github.com/workai-app/workai-cli/internal/ports"
)

// TokenRefresher exchanges a provider refresh token for a rotated pair.
type TokenRefresher interface {
	RefreshToken(ctx context.Context, provider domain.Provider, refreshToken string) (domain.TokenPair, error)
}

// ProviderService owns the persisted OAuth token pairs for the meeting
// providers and the refresh flow that rotates them.
type ProviderService struct {
	store     ports.TokenStore
	refresher TokenRefresher
	logger    zerolog.Logger
	group     singleflight.Group
}

func NewProviderService(store ports.TokenStore, refresher TokenRefresher, logger zerolog.Logger) *ProviderService {
	return &ProviderService{
		store:     store,
		refresher: refresher,
		logger:    logger.With().Str("component", "provider").Logger(),
	}
}

// AccessToken returns the stored access token for the provider, or
// domain.ErrNotConnected when none is stored.
func (s *ProviderService) AccessToken(ctx context.Context, provider domain.Provider) (string, error) {
	token, err := s.store.Get(ctx, domain.AccessTokenKind(provider))
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return "", fmt.Errorf("%s: %w", provider, domain.ErrNotConnected)
		}
		return "", fmt.Errorf("read %s access token: %w", provider, err)
	}
	return token, nil
}

// Connected reports whether an access token is stored for the provider.
func (s *ProviderService) Connected(ctx context.Context, provider domain.Provider) (bool, error) {
	_, err := s.AccessToken(ctx, provider)
	if err != nil {
		if errors.Is(err, domain.ErrNotConnected) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// StorePair persists both halves of a freshly granted token pair.
func (s *ProviderService) StorePair(ctx context.Context, provider domain.Provider, pair domain.TokenPair) error {
	if err := s.store.Set(ctx, domain.AccessTokenKind(provider), pair.AccessToken); err != nil {
		return fmt.Errorf("store %s access token: %w", provider, err)
	}
	if err := s.store.Set(ctx, domain.RefreshTokenKind(provider), pair.RefreshToken); err != nil {
		return fmt.Errorf("store %s refresh token: %w", provider, err)
	}
	s.logger.Info().Str("provider", string(provider)).Msg("stored provider tokens")
	return nil
}

// ClearPair removes both halves of the provider's token pair. Missing
// tokens are not an error.
func (s *ProviderService) ClearPair(ctx context.Context, provider domain.Provider) error {
	if err := s.store.Delete(ctx, domain.AccessTokenKind(provider)); err != nil {
		return fmt.Errorf("clear %s access token: %w", provider, err)
	}
	if err := s.store.Delete(ctx, domain.RefreshTokenKind(provider)); err != nil {
		return fmt.Errorf("clear %s refresh token: %w", provider, err)
	}
	return nil
}

// Refresh exchanges the stored refresh token for a rotated pair,
// persists it, and returns the new access token. Concurrent refreshes
// for the same provider collapse into one exchange. When no refresh
// token is stored it returns domain.ErrRefreshUnavailable and leaves
// the stored state untouched; when the exchange itself fails both
// halves of the pair are cleared so the connection reads as broken
// rather than silently stale.
func (s *ProviderService) Refresh(ctx context.Context, provider domain.Provider) (string, error) {
	token, err, _ := s.group.Do(string(provider), func() (any, error) {
		return s.refresh(ctx, provider)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (s *ProviderService) refresh(ctx context.Context, provider domain.Provider) (string, error) {
	refreshToken, err := s.store.Get(ctx, domain.RefreshTokenKind(provider))
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return "", fmt.Errorf("%s: %w", provider, domain.ErrRefreshUnavailable)
		}
		return "", fmt.Errorf("read %s refresh token: %w", provider, err)
	}

	pair, err := s.refresher.RefreshToken(ctx, provider, refreshToken)
	if err != nil {
		s.logger.Warn().Str("provider", string(provider)).Err(err).Msg("token refresh failed, clearing connection")
		if clearErr := s.ClearPair(ctx, provider); clearErr != nil {
			s.logger.Error().Str("provider", string(provider)).Err(clearErr).Msg("failed to clear tokens after refresh failure")
		}
		return "", fmt.Errorf("refresh %s token: %w", provider, err)
	}

	if err := s.StorePair(ctx, provider, pair); err != nil {
		return "", err
	}
	s.logger.Info().Str("provider", string(provider)).Msg("refreshed provider tokens")
	return pair.AccessToken, nil
}

// CallWithProviderAuth runs an authenticated provider call through the
// refresh-and-retry wrapper, using the stored access token and the
// provider's expiry classifier.
func CallWithProviderAuth[T any](ctx context.Context, svc *ProviderService, provider domain.Provider, call AuthedCall[T]) (T, error) {
	var zero T
	token, err := svc.AccessToken(ctx, provider)
	if err != nil {
		return zero, err
	}

	classify := func(err error) domain.TokenStatus {
		return domain.ClassifyAuthError(provider, err)
	}
	refresh := func(ctx context.Context) (string, error) {
		return svc.Refresh(ctx, provider)
	}
	return WithAuthRetry(ctx, token, call, classify, refresh)
}
