package services

import (
	"context"
	"testing"

	"poolpass/syncbridge/internal/common"
	"poolpass/syncbridge/internal/constants"
	"poolpass/syncbridge/internal/db/repositories"
	"poolpass/syncbridge/internal/models/dtos"
	gormModels "poolpass/syncbridge/internal/models/gorm"
	"poolpass/syncbridge/internal/providers"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testCipherKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// Setup test database
func setupTestDB(t *testing.T) (*gorm.DB, *sqlx.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	// Auto migrate
	if err := db.AutoMigrate(
		&gormModels.Integration{},
		&gormModels.IntegrationCredential{},
		&gormModels.PoolMapping{},
		&gormModels.SyncSchedule{},
		&gormModels.SyncLog{},
		&gormModels.SyncConflict{},
		&gormModels.WebhookEvent{},
		&gormModels.Notification{},
		&gormModels.Pool{},
		&gormModels.Booking{},
	); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db, sqlx.NewDb(sqlDB, "sqlite3")
}

// Mock ProviderAdapter
type mockAdapter struct {
	testConnectionFunc  func(ctx context.Context) (bool, error)
	getPoolDetailsFunc  func(ctx context.Context) (*dtos.PoolDetails, error)
	getAvailabilityFunc func(ctx context.Context) ([]dtos.AvailabilitySlot, error)
	syncBookingsFunc    func(ctx context.Context) error
}

func (m *mockAdapter) TestConnection(ctx context.Context) (bool, error) {
	if m.testConnectionFunc != nil {
		return m.testConnectionFunc(ctx)
	}
	return true, nil
}

func (m *mockAdapter) GetPoolDetails(ctx context.Context) (*dtos.PoolDetails, error) {
	if m.getPoolDetailsFunc != nil {
		return m.getPoolDetailsFunc(ctx)
	}
	return &dtos.PoolDetails{ExternalID: "room-1", Title: "Pool Suite"}, nil
}

func (m *mockAdapter) GetAvailability(ctx context.Context) ([]dtos.AvailabilitySlot, error) {
	if m.getAvailabilityFunc != nil {
		return m.getAvailabilityFunc(ctx)
	}
	return []dtos.AvailabilitySlot{}, nil
}

func (m *mockAdapter) SyncBookings(ctx context.Context) error {
	if m.syncBookingsFunc != nil {
		return m.syncBookingsFunc(ctx)
	}
	return nil
}

func (m *mockAdapter) ProviderType() string { return constants.ProviderStayFlow }

// Mock AdapterFactory
type mockFactory struct {
	adapter *mockAdapter
}

func (f *mockFactory) CreateAdapter(bundle *dtos.CredentialBundle) (providers.ProviderAdapter, error) {
	return f.adapter, nil
}

func (f *mockFactory) SupportedProviders() []dtos.ProviderInfo {
	return []dtos.ProviderInfo{{ID: constants.ProviderStayFlow, Name: "StayFlow PMS", AuthType: constants.AuthTypeBearer}}
}

func testCipher(t *testing.T) *common.CredentialCipher {
	t.Helper()
	cipher, err := common.NewCredentialCipher(testCipherKey)
	if err != nil {
		t.Fatalf("Failed to build cipher: %v", err)
	}
	return cipher
}

// newTestIntegration persists an integration with encrypted credentials
// and returns it.
func newTestIntegration(t *testing.T, svc *IntegrationService, active bool) *gormModels.Integration {
	t.Helper()

	integration, err := svc.CreateIntegration(context.Background(), CreateIntegrationInput{
		HostID:   "7b0e9c58-0000-4000-8000-000000000001",
		Provider: constants.ProviderStayFlow,
		Label:    "Test PMS",
		BaseURL:  "https://pms.example.com",
		Credentials: map[string]string{
			constants.CredentialKindOAuthToken: "tok-secret",
		},
	})
	if err != nil {
		t.Fatalf("CreateIntegration failed: %v", err)
	}

	if !active {
		if err := svc.ToggleIntegration(context.Background(), integration.ID, false); err != nil {
			t.Fatalf("ToggleIntegration failed: %v", err)
		}
		integration.IsActive = false
	}
	return integration
}

func newTestRepos(gdb *gorm.DB, sdb *sqlx.DB) (*repositories.IntegrationRepository, *repositories.PoolMappingRepository) {
	return repositories.NewIntegrationRepository(gdb), repositories.NewPoolMappingRepository(sdb)
}
