package repositories

import (
	"context"
	"testing"

	gormModels "poolpass/syncbridge/internal/models/gorm"

	"github.com/google/uuid"
)

func TestPoolMappingRepository_UpsertKeepsRowIdentity(t *testing.T) {
	_, sdb := setupTestDB(t)
	repo := NewPoolMappingRepository(sdb)
	ctx := context.Background()

	integrationID := uuid.NewString()
	mapping := &gormModels.PoolMapping{
		IntegrationID:    integrationID,
		ExternalPoolID:   "room-42",
		ExternalPoolName: "Rooftop Pool",
		ConfigData:       []byte(`{"title":"Rooftop Pool"}`),
	}
	if err := repo.Upsert(ctx, mapping); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	firstID := mapping.ID

	// Re-import with fresher data hits the same row.
	again := &gormModels.PoolMapping{
		IntegrationID:    integrationID,
		ExternalPoolID:   "room-42",
		ExternalPoolName: "Rooftop Infinity Pool",
		ConfigData:       []byte(`{"title":"Rooftop Infinity Pool"}`),
	}
	if err := repo.Upsert(ctx, again); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if again.ID != firstID {
		t.Errorf("Expected re-import to keep row id %s, got %s", firstID, again.ID)
	}

	got, err := repo.GetByExternalID(ctx, integrationID, "room-42")
	if err != nil {
		t.Fatalf("GetByExternalID failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected mapping, got nil")
	}
	if got.ExternalPoolName != "Rooftop Infinity Pool" {
		t.Errorf("Expected refreshed name, got %q", got.ExternalPoolName)
	}
}

func TestPoolMappingRepository_ReimportPreservesLink(t *testing.T) {
	_, sdb := setupTestDB(t)
	repo := NewPoolMappingRepository(sdb)
	ctx := context.Background()

	integrationID := uuid.NewString()
	mapping := &gormModels.PoolMapping{
		IntegrationID:  integrationID,
		ExternalPoolID: "room-7",
	}
	if err := repo.Upsert(ctx, mapping); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	poolID := uuid.NewString()
	if err := repo.SetPoolpassPoolID(ctx, mapping.ID, poolID); err != nil {
		t.Fatalf("SetPoolpassPoolID failed: %v", err)
	}

	// Another import run must not sever the materialized listing.
	if err := repo.Upsert(ctx, &gormModels.PoolMapping{
		IntegrationID:  integrationID,
		ExternalPoolID: "room-7",
		ConfigData:     []byte(`{}`),
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := repo.GetByID(ctx, mapping.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.PoolpassPoolID == nil || *got.PoolpassPoolID != poolID {
		t.Errorf("Expected poolpass pool id %s to survive re-import, got %v", poolID, got.PoolpassPoolID)
	}
}

func TestPoolMappingRepository_GetByExternalIDMiss(t *testing.T) {
	_, sdb := setupTestDB(t)
	repo := NewPoolMappingRepository(sdb)

	got, err := repo.GetByExternalID(context.Background(), uuid.NewString(), "nope")
	if err != nil {
		t.Fatalf("GetByExternalID failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for unknown mapping, got %+v", got)
	}
}
