package domain

import "fmt"

// Provider is an external meeting platform whose OAuth tokens this
// client stores and refreshes through the WorkAI backend.
type Provider string

const (
	ProviderZoom  Provider = "zoom"
	ProviderTeams Provider = "teams"
)

func ParseProvider(raw string) (Provider, error) {
	provider := Provider(raw)
	switch provider {
	case ProviderZoom, ProviderTeams:
		return provider, nil
	default:
		return "", fmt.Errorf("unsupported provider %q", raw)
	}
}

func Providers() []Provider {
	return []Provider{ProviderZoom, ProviderTeams}
}
