package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"poolpass/syncbridge/internal/common"
	"poolpass/syncbridge/internal/constants"
	"poolpass/syncbridge/internal/db/repositories"
	"poolpass/syncbridge/internal/logging"
	"poolpass/syncbridge/internal/models/dtos"
	gormModels "poolpass/syncbridge/internal/models/gorm"
	"poolpass/syncbridge/internal/providers"
)

// Sentinel errors surfaced to callers of the sync services.
var (
	ErrIntegrationNotFound = errors.New(constants.GetErrorMessage(constants.ErrCodeIntegrationNotFound))
	ErrIntegrationInactive = errors.New(constants.GetErrorMessage(constants.ErrCodeIntegrationInactive))
	ErrConnectionFailed    = errors.New(constants.GetErrorMessage(constants.ErrCodeConnectionFailed))
	ErrCredentialsMissing  = errors.New(constants.GetErrorMessage(constants.ErrCodeCredentialsMissing))
)

// IntegrationService owns the lifecycle of a host's external-system
// connection: credential-tested creation, toggling, soft deletion, and
// turning stored encrypted credentials back into a live adapter.
type IntegrationService struct {
	integrationRepo *repositories.IntegrationRepository
	factory         providers.AdapterFactory
	cipher          *common.CredentialCipher
}

// NewIntegrationService creates a new integration service
func NewIntegrationService(
	integrationRepo *repositories.IntegrationRepository,
	factory providers.AdapterFactory,
	cipher *common.CredentialCipher,
) *IntegrationService {
	return &IntegrationService{
		integrationRepo: integrationRepo,
		factory:         factory,
		cipher:          cipher,
	}
}

// CreateIntegrationInput carries the host's connection request. Credential
// values arrive in the clear over TLS and are sealed before persistence.
type CreateIntegrationInput struct {
	HostID      string
	Provider    string
	Label       string
	BaseURL     string
	Credentials map[string]string // credential kind -> plaintext value
}

// CreateIntegration tests the connection with the supplied credentials and,
// on success, persists the integration plus its encrypted credentials in
// one transaction.
func (s *IntegrationService) CreateIntegration(ctx context.Context, input CreateIntegrationInput) (*gormModels.Integration, error) {
	bundle := &dtos.CredentialBundle{
		Provider:     input.Provider,
		BaseURL:      input.BaseURL,
		APIKey:       input.Credentials[constants.CredentialKindAPIKey],
		OAuthToken:   input.Credentials[constants.CredentialKindOAuthToken],
		RefreshToken: input.Credentials[constants.CredentialKindRefreshToken],
	}

	adapter, err := s.factory.CreateAdapter(bundle)
	if err != nil {
		return nil, err
	}

	ok, err := adapter.TestConnection(ctx)
	if err != nil {
		return nil, fmt.Errorf("connection test failed: %w", err)
	}
	if !ok {
		return nil, ErrConnectionFailed
	}

	integration := &gormModels.Integration{
		HostID:   input.HostID,
		Provider: input.Provider,
		Label:    input.Label,
		BaseURL:  input.BaseURL,
		IsActive: true,
	}

	credentials := make([]gormModels.IntegrationCredential, 0, len(input.Credentials))
	for kind, value := range input.Credentials {
		if value == "" {
			continue
		}
		sealed, err := s.cipher.Encrypt(value)
		if err != nil {
			return nil, fmt.Errorf("failed to seal credential: %w", err)
		}
		credentials = append(credentials, gormModels.IntegrationCredential{
			CredentialKind: kind,
			EncryptedValue: sealed,
		})
	}

	if err := s.integrationRepo.CreateWithCredentials(ctx, integration, credentials); err != nil {
		return nil, err
	}

	logging.Info("Integration created",
		"integration_id", integration.ID,
		"provider", integration.Provider,
		"host_id", integration.HostID,
	)
	return integration, nil
}

// ToggleIntegration flips the active flag
func (s *IntegrationService) ToggleIntegration(ctx context.Context, integrationID string, active bool) error {
	integration, err := s.integrationRepo.GetByID(ctx, integrationID)
	if err != nil {
		return err
	}
	if integration == nil {
		return ErrIntegrationNotFound
	}
	return s.integrationRepo.SetActive(ctx, integrationID, active)
}

// DeleteIntegration soft-deletes by deactivating. Credential rows stay
// sealed with the row so the connection can be reactivated.
func (s *IntegrationService) DeleteIntegration(ctx context.Context, integrationID string) error {
	return s.ToggleIntegration(ctx, integrationID, false)
}

// ListByHost returns a host's integrations
func (s *IntegrationService) ListByHost(ctx context.Context, hostID string) ([]gormModels.Integration, error) {
	return s.integrationRepo.ListByHost(ctx, hostID)
}

// ListProviders returns the factory's static provider registry
func (s *IntegrationService) ListProviders() []dtos.ProviderInfo {
	return s.factory.SupportedProviders()
}

// TestIntegration re-runs the connection test against stored credentials
func (s *IntegrationService) TestIntegration(ctx context.Context, integrationID string) (bool, error) {
	adapter, _, err := s.AdapterFor(ctx, integrationID)
	if err != nil {
		return false, err
	}
	return adapter.TestConnection(ctx)
}

// AdapterFor loads an integration, decrypts its credential bundle and
// builds the provider adapter. The integration must exist and be active.
func (s *IntegrationService) AdapterFor(ctx context.Context, integrationID string) (providers.ProviderAdapter, *gormModels.Integration, error) {
	integration, err := s.integrationRepo.GetWithCredentials(ctx, integrationID)
	if err != nil {
		return nil, nil, err
	}
	if integration == nil {
		return nil, nil, ErrIntegrationNotFound
	}
	if !integration.IsActive {
		return nil, nil, ErrIntegrationInactive
	}

	bundle, err := s.bundleFor(integration)
	if err != nil {
		return nil, nil, err
	}

	adapter, err := s.factory.CreateAdapter(bundle)
	if err != nil {
		return nil, nil, err
	}
	return adapter, integration, nil
}

// bundleFor reconstructs the decrypted credential bundle. Expired
// credentials are skipped; raw values never reach a log line.
func (s *IntegrationService) bundleFor(integration *gormModels.Integration) (*dtos.CredentialBundle, error) {
	if len(integration.Credentials) == 0 {
		return nil, ErrCredentialsMissing
	}

	bundle := &dtos.CredentialBundle{
		Provider: integration.Provider,
		BaseURL:  integration.BaseURL,
	}

	now := time.Now()
	for _, cred := range integration.Credentials {
		if cred.ExpiresAt != nil && cred.ExpiresAt.Before(now) {
			logging.Warn("Skipping expired credential",
				"integration_id", integration.ID,
				"credential_kind", cred.CredentialKind,
			)
			continue
		}

		value, err := s.cipher.Decrypt(cred.EncryptedValue)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", constants.GetErrorMessage(constants.ErrCodeCredentialDecrypt), err)
		}

		switch cred.CredentialKind {
		case constants.CredentialKindAPIKey:
			bundle.APIKey = value
		case constants.CredentialKindOAuthToken:
			bundle.OAuthToken = value
		case constants.CredentialKindRefreshToken:
			bundle.RefreshToken = value
		}
	}

	if bundle.APIKey == "" && bundle.OAuthToken == "" {
		return nil, ErrCredentialsMissing
	}
	return bundle, nil
}
