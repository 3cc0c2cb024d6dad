// Package oauthreturn handles the redirect leg of the provider consent
// flow: the backend completes the OAuth exchange and sends the granted
// tokens back as query parameters.
package oauthreturn

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/workai-app/workai-cli/internal/domain"
)

var ErrNoReturnParams = errors.New("no oauth return parameters present")

// Return is one parsed consent-flow outcome. Err carries a failed
// grant; Pair is only meaningful when Err is nil.
type Return struct {
	Provider domain.Provider
	Pair     domain.TokenPair
	Err      error
}

// ParseReturn inspects redirect query parameters for a provider grant.
// Teams parameters are checked first and win when both providers appear
// in the same redirect. A bare error parameter resolves against the
// same precedence so the caller knows which connection attempt failed.
func ParseReturn(params url.Values) (Return, error) {
	teamsAccess := params.Get("teams_access_token")
	zoomAccess := params.Get("access_token")
	oauthErr := params.Get("error")

	switch {
	case teamsAccess != "":
		return Return{
			Provider: domain.ProviderTeams,
			Pair: domain.TokenPair{
				AccessToken:  teamsAccess,
				RefreshToken: params.Get("teams_refresh_token"),
			},
		}, nil
	case zoomAccess != "":
		return Return{
			Provider: domain.ProviderZoom,
			Pair: domain.TokenPair{
				AccessToken:  zoomAccess,
				RefreshToken: params.Get("refresh_token"),
			},
		}, nil
	case oauthErr != "":
		provider := domain.ProviderZoom
		if params.Has("teams_refresh_token") || params.Get("provider") == string(domain.ProviderTeams) {
			provider = domain.ProviderTeams
		}
		return Return{
			Provider: provider,
			Err:      fmt.Errorf("oauth consent failed: %s", oauthErr),
		}, nil
	default:
		return Return{}, ErrNoReturnParams
	}
}
