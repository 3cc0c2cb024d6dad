package ports

import (
	"context"

	"github.com/workai-app/workai-cli/internal/domain"
)

// TokenStore is the process-wide source of truth for the session bearer
// token and both provider token pairs, mirrored to durable local
// storage on every mutation. Get returns domain.ErrTokenNotFound when
// no value is stored for the kind.
type TokenStore interface {
	Get(ctx context.Context, kind domain.TokenKind) (string, error)
	// Set persists immediately. An empty value behaves like Delete.
	Set(ctx context.Context, kind domain.TokenKind, value string) error
	Delete(ctx context.Context, kind domain.TokenKind) error
}
