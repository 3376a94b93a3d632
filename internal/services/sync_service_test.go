package services

import (
	"context"
	"errors"
	"testing"

	"poolpass/syncbridge/internal/constants"
	"poolpass/syncbridge/internal/db/repositories"
	"poolpass/syncbridge/internal/models/dtos"
	gormModels "poolpass/syncbridge/internal/models/gorm"
)

func newSyncFixture(t *testing.T, adapter *mockAdapter) (*SyncService, *gormModels.Integration, *repositories.SyncLogRepository, *repositories.PoolRepository, *repositories.IntegrationRepository) {
	t.Helper()

	gdb, sdb := setupTestDB(t)
	integrationRepo, _ := newTestRepos(gdb, sdb)
	logRepo := repositories.NewSyncLogRepository(gdb)
	poolRepo := repositories.NewPoolRepository(gdb)

	integrationSvc := NewIntegrationService(integrationRepo, &mockFactory{adapter: adapter}, testCipher(t))
	integration := newTestIntegration(t, integrationSvc, true)

	svc := NewSyncService(integrationSvc, integrationRepo, logRepo, poolRepo, nil)
	return svc, integration, logRepo, poolRepo, integrationRepo
}

func TestSyncService_ExecuteAvailabilitySuccess(t *testing.T) {
	adapter := &mockAdapter{
		getAvailabilityFunc: func(ctx context.Context) ([]dtos.AvailabilitySlot, error) {
			return []dtos.AvailabilitySlot{
				{Date: "2026-09-02", StartTime: "09:00", EndTime: "18:00", IsBooked: false},
			}, nil
		},
	}
	svc, integration, logRepo, _, integrationRepo := newSyncFixture(t, adapter)
	ctx := context.Background()

	if err := svc.Execute(ctx, integration.ID, constants.SyncTypeAvailability); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	logs, err := logRepo.ListByIntegration(ctx, integration.ID, 10)
	if err != nil {
		t.Fatalf("ListByIntegration failed: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("Expected 1 sync log, got %d", len(logs))
	}
	if logs[0].Status != constants.SyncStatusSuccess {
		t.Errorf("Expected success status, got %s", logs[0].Status)
	}
	if logs[0].CompletedAt == nil {
		t.Error("Expected completed_at to be set")
	}
	if len(logs[0].SyncedData) == 0 {
		t.Error("Expected payload snapshot in sync log")
	}

	reloaded, err := integrationRepo.GetByID(ctx, integration.ID)
	if err != nil {
		t.Fatalf("Integration reload failed: %v", err)
	}
	if reloaded.LastSyncAt == nil {
		t.Error("Expected last_sync_at to be stamped after a successful sync")
	}
}

func TestSyncService_ExecuteRejectsInactiveIntegration(t *testing.T) {
	adapter := &mockAdapter{}
	gdb, sdb := setupTestDB(t)
	integrationRepo, _ := newTestRepos(gdb, sdb)
	logRepo := repositories.NewSyncLogRepository(gdb)
	poolRepo := repositories.NewPoolRepository(gdb)

	integrationSvc := NewIntegrationService(integrationRepo, &mockFactory{adapter: adapter}, testCipher(t))
	integration := newTestIntegration(t, integrationSvc, false)

	svc := NewSyncService(integrationSvc, integrationRepo, logRepo, poolRepo, nil)
	ctx := context.Background()

	err := svc.Execute(ctx, integration.ID, constants.SyncTypeAvailability)
	if !errors.Is(err, ErrIntegrationInactive) {
		t.Fatalf("Expected inactive error, got %v", err)
	}

	// The failed attempt still leaves an audit row.
	logs, err := logRepo.ListByIntegration(ctx, integration.ID, 10)
	if err != nil {
		t.Fatalf("ListByIntegration failed: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("Expected 1 sync log, got %d", len(logs))
	}
	if logs[0].Status != constants.SyncStatusError {
		t.Errorf("Expected error status, got %s", logs[0].Status)
	}

	reloaded, err := integrationRepo.GetByID(ctx, integration.ID)
	if err != nil {
		t.Fatalf("Integration reload failed: %v", err)
	}
	if reloaded.LastSyncAt != nil {
		t.Error("Expected last_sync_at to stay unset after a failed sync")
	}
}

func TestSyncService_ExecuteConnectionGate(t *testing.T) {
	// The creation-time probe must pass; the adapter goes unhealthy after.
	healthy := true
	adapter := &mockAdapter{
		testConnectionFunc: func(ctx context.Context) (bool, error) { return healthy, nil },
	}

	svc, integration, _, _, _ := newSyncFixture(t, adapter)
	healthy = false

	err := svc.Execute(context.Background(), integration.ID, constants.SyncTypeBookings)
	if !errors.Is(err, ErrConnectionFailed) {
		t.Fatalf("Expected connection failure, got %v", err)
	}
}

func TestSyncService_ExecuteInvalidSyncType(t *testing.T) {
	svc, integration, _, _, _ := newSyncFixture(t, &mockAdapter{})

	err := svc.Execute(context.Background(), integration.ID, "inventory")
	var invalid *InvalidSyncTypeError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected InvalidSyncTypeError, got %v", err)
	}
}

func TestSyncService_PoolSyncWritesListing(t *testing.T) {
	adapter := &mockAdapter{
		getPoolDetailsFunc: func(ctx context.Context) (*dtos.PoolDetails, error) {
			return &dtos.PoolDetails{
				ExternalID:  "room-9",
				Title:       "Lagoon Pool",
				Location:    "Palm Springs",
				PricePerDay: 320,
				MaxGuests:   8,
				Amenities:   []string{"heated"},
			}, nil
		},
	}
	svc, integration, _, poolRepo, _ := newSyncFixture(t, adapter)

	if err := svc.Execute(context.Background(), integration.ID, constants.SyncTypePools); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	pools, err := poolRepo.ListByHost(context.Background(), integration.HostID)
	if err != nil {
		t.Fatalf("Pool lookup failed: %v", err)
	}
	if len(pools) != 1 {
		t.Fatalf("Expected 1 pool, got %d", len(pools))
	}
	if pools[0].PricePerHour != 40 {
		t.Errorf("Expected daily rate 320 to become hourly rate 40, got %v", pools[0].PricePerHour)
	}
	if pools[0].IsActive {
		t.Error("Expected synced pool to start inactive pending review")
	}
}
