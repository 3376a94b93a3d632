package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"poolpass/syncbridge/internal/constants"
	gormModels "poolpass/syncbridge/internal/models/gorm"
)

func TestIntegrationService_CreateStoresSealedCredentials(t *testing.T) {
	gdb, sdb := setupTestDB(t)
	integrationRepo, _ := newTestRepos(gdb, sdb)
	svc := NewIntegrationService(integrationRepo, &mockFactory{adapter: &mockAdapter{}}, testCipher(t))

	integration := newTestIntegration(t, svc, true)

	var creds []gormModels.IntegrationCredential
	if err := gdb.Where("integration_id = ?", integration.ID).Find(&creds).Error; err != nil {
		t.Fatalf("Credential lookup failed: %v", err)
	}
	if len(creds) != 1 {
		t.Fatalf("Expected 1 credential row, got %d", len(creds))
	}
	if creds[0].CredentialKind != constants.CredentialKindOAuthToken {
		t.Errorf("Expected oauth_token kind, got %s", creds[0].CredentialKind)
	}
	if strings.Contains(creds[0].EncryptedValue, "tok-secret") {
		t.Error("Credential stored in plaintext")
	}

	// Round trip through the adapter path proves the value decrypts.
	if _, _, err := svc.AdapterFor(context.Background(), integration.ID); err != nil {
		t.Fatalf("AdapterFor failed: %v", err)
	}
}

func TestIntegrationService_CreateRejectsBadCredentials(t *testing.T) {
	gdb, sdb := setupTestDB(t)
	integrationRepo, _ := newTestRepos(gdb, sdb)

	adapter := &mockAdapter{
		testConnectionFunc: func(ctx context.Context) (bool, error) { return false, nil },
	}
	svc := NewIntegrationService(integrationRepo, &mockFactory{adapter: adapter}, testCipher(t))

	_, err := svc.CreateIntegration(context.Background(), CreateIntegrationInput{
		HostID:   "7b0e9c58-0000-4000-8000-000000000001",
		Provider: constants.ProviderStayFlow,
		BaseURL:  "https://pms.example.com",
		Credentials: map[string]string{
			constants.CredentialKindOAuthToken: "wrong",
		},
	})
	if !errors.Is(err, ErrConnectionFailed) {
		t.Fatalf("Expected connection failure, got %v", err)
	}

	// Nothing should be persisted for a failed probe.
	var count int64
	if err := gdb.Model(&gormModels.Integration{}).Count(&count).Error; err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no integrations persisted, got %d", count)
	}
}

func TestIntegrationService_AdapterForGatesInactive(t *testing.T) {
	gdb, sdb := setupTestDB(t)
	integrationRepo, _ := newTestRepos(gdb, sdb)
	svc := NewIntegrationService(integrationRepo, &mockFactory{adapter: &mockAdapter{}}, testCipher(t))

	integration := newTestIntegration(t, svc, false)

	_, _, err := svc.AdapterFor(context.Background(), integration.ID)
	if !errors.Is(err, ErrIntegrationInactive) {
		t.Fatalf("Expected inactive error, got %v", err)
	}

	// Re-enable and try again.
	if err := svc.ToggleIntegration(context.Background(), integration.ID, true); err != nil {
		t.Fatalf("ToggleIntegration failed: %v", err)
	}
	if _, _, err := svc.AdapterFor(context.Background(), integration.ID); err != nil {
		t.Fatalf("AdapterFor failed after re-enable: %v", err)
	}
}

func TestIntegrationService_AdapterForUnknownID(t *testing.T) {
	gdb, sdb := setupTestDB(t)
	integrationRepo, _ := newTestRepos(gdb, sdb)
	svc := NewIntegrationService(integrationRepo, &mockFactory{adapter: &mockAdapter{}}, testCipher(t))

	_, _, err := svc.AdapterFor(context.Background(), "2f6dca0e-0000-4000-8000-00000000dead")
	if !errors.Is(err, ErrIntegrationNotFound) {
		t.Fatalf("Expected not-found error, got %v", err)
	}
}

func TestIntegrationService_DeleteIsSoft(t *testing.T) {
	gdb, sdb := setupTestDB(t)
	integrationRepo, _ := newTestRepos(gdb, sdb)
	svc := NewIntegrationService(integrationRepo, &mockFactory{adapter: &mockAdapter{}}, testCipher(t))

	integration := newTestIntegration(t, svc, true)

	if err := svc.DeleteIntegration(context.Background(), integration.ID); err != nil {
		t.Fatalf("DeleteIntegration failed: %v", err)
	}

	got, err := integrationRepo.GetByID(context.Background(), integration.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected soft-deleted integration to remain readable")
	}
	if got.IsActive {
		t.Error("Expected integration to be inactive after delete")
	}
}
