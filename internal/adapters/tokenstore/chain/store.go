package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/viper"

	passstore "github.com/workai-app/workai-cli/internal/adapters/tokenstore/pass"
	tomlstore "github.com/workai-app/workai-cli/internal/adapters/tokenstore/toml"
	"github.com/workai-app/workai-cli/internal/domain"
	"github.com/workai-app/workai-cli/internal/ports"
)

// Store chains two token stores: every operation tries the primary and
// falls back to the secondary unless the failure was a cancellation.
type Store struct {
	primary  ports.TokenStore
	fallback ports.TokenStore
}

var _ ports.TokenStore = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary token store is nil")
	errNilFallbackStore = errors.New("fallback token store is nil")
)

func NewStore(primary ports.TokenStore, fallback ports.TokenStore) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}

	return &Store{primary: primary, fallback: fallback}, nil
}

// NewPassFirstWithFileFallback prefers the pass password manager and
// falls back to the TOML file store configured through cfg.
func NewPassFirstWithFileFallback(cfg *viper.Viper) (*Store, error) {
	fileStore, err := tomlstore.NewStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire file token store: %w", err)
	}

	return NewStore(passstore.NewStore(), fileStore)
}

func (s *Store) Set(ctx context.Context, kind domain.TokenKind, value string) error {
	err := s.primary.Set(ctx, kind, value)
	if err == nil {
		return nil
	}
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Set(ctx, kind, value)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary backend set failed: %w; fallback backend set failed: %w", err, fallbackErr)
}

func (s *Store) Get(ctx context.Context, kind domain.TokenKind) (string, error) {
	value, err := s.primary.Get(ctx, kind)
	if err == nil {
		return value, nil
	}
	if shouldSkipFallback(err) {
		return "", err
	}

	fallbackValue, fallbackErr := s.fallback.Get(ctx, kind)
	if fallbackErr == nil {
		return fallbackValue, nil
	}

	return "", fmt.Errorf("primary backend get failed: %w; fallback backend get failed: %w", err, fallbackErr)
}

func (s *Store) Delete(ctx context.Context, kind domain.TokenKind) error {
	err := s.primary.Delete(ctx, kind)
	if shouldSkipFallback(err) {
		return err
	}

	// Both copies must go so a later Get cannot resurrect a cleared
	// token from the fallback.
	fallbackErr := s.fallback.Delete(ctx, kind)

	if err != nil && !errors.Is(err, passstore.ErrUnavailable) {
		if fallbackErr != nil {
			return fmt.Errorf("primary backend delete failed: %w; fallback backend delete failed: %w", err, fallbackErr)
		}
		return fmt.Errorf("primary backend delete failed: %w", err)
	}
	if fallbackErr != nil {
		return fmt.Errorf("fallback backend delete failed: %w", fallbackErr)
	}
	return nil
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
