package domain

// TokenKind names a durable token-store entry. The literal values are
// the storage keys and must stay stable across releases.
type TokenKind string

const (
	TokenKindSession      TokenKind = "token"
	TokenKindZoomAccess   TokenKind = "zoomToken"
	TokenKindZoomRefresh  TokenKind = "zoomRefreshToken"
	TokenKindTeamsAccess  TokenKind = "teamsToken"
	TokenKindTeamsRefresh TokenKind = "teamsRefreshToken"
)

func TokenKinds() []TokenKind {
	return []TokenKind{
		TokenKindSession,
		TokenKindZoomAccess,
		TokenKindZoomRefresh,
		TokenKindTeamsAccess,
		TokenKindTeamsRefresh,
	}
}

// AccessTokenKind maps a provider to its access-token storage key.
// Providers come from ParseProvider or the package constants, so the
// mapping is total for any value seen at runtime.
func AccessTokenKind(provider Provider) TokenKind {
	if provider == ProviderTeams {
		return TokenKindTeamsAccess
	}
	return TokenKindZoomAccess
}

func RefreshTokenKind(provider Provider) TokenKind {
	if provider == ProviderTeams {
		return TokenKindTeamsRefresh
	}
	return TokenKindZoomRefresh
}

// TokenPair holds one provider's current access/refresh tokens. Empty
// strings mean absent: without an access token no authenticated call is
// attempted, and without a refresh token a failed refresh is terminal
// until the user runs the consent flow again.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

func (p TokenPair) Connected() bool {
	return p.AccessToken != ""
}

func (p TokenPair) Refreshable() bool {
	return p.RefreshToken != ""
}
