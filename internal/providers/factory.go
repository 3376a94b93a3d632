package providers

import (
	"fmt"

	"poolpass/syncbridge/internal/constants"
	"poolpass/syncbridge/internal/models/dtos"
)

// AdapterFactory builds the right ProviderAdapter for a credential bundle.
// Services depend on this interface so tests can inject stub adapters.
type AdapterFactory interface {
	CreateAdapter(bundle *dtos.CredentialBundle) (ProviderAdapter, error)
	SupportedProviders() []dtos.ProviderInfo
}

// Factory is the production AdapterFactory: a closed dispatch on the
// provider tag. Adding a provider means one case here plus one adapter
// implementation; call sites never change.
type Factory struct{}

// Ensure Factory implements AdapterFactory
var _ AdapterFactory = (*Factory)(nil)

// NewFactory creates the production adapter factory
func NewFactory() *Factory {
	return &Factory{}
}

// CreateAdapter dispatches on the bundle's provider tag.
func (f *Factory) CreateAdapter(bundle *dtos.CredentialBundle) (ProviderAdapter, error) {
	switch bundle.Provider {
	case constants.ProviderStayFlow:
		token := bundle.OAuthToken
		if token == "" {
			token = bundle.APIKey
		}
		return NewStayFlowAdapter(bundle.BaseURL, token), nil
	case constants.ProviderResortKey:
		return NewResortKeyAdapter(bundle.BaseURL, bundle.APIKey), nil
	default:
		return nil, &ProviderError{
			Code:    constants.ErrCodeUnsupportedProvider,
			Message: constants.GetErrorMessage(constants.ErrCodeUnsupportedProvider),
			Details: fmt.Sprintf("provider %q is not registered", bundle.Provider),
		}
	}
}

// SupportedProviders returns the static registry the UI renders provider
// choices from. This is the single source of truth for what's pluggable.
func (f *Factory) SupportedProviders() []dtos.ProviderInfo {
	return []dtos.ProviderInfo{
		{ID: constants.ProviderStayFlow, Name: "StayFlow PMS", AuthType: constants.AuthTypeBearer},
		{ID: constants.ProviderResortKey, Name: "ResortKey", AuthType: constants.AuthTypeAPIKey},
	}
}
