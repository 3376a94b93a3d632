package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"poolpass/syncbridge/internal/common"
	"poolpass/syncbridge/internal/db/repositories"
	"poolpass/syncbridge/internal/logging"
	"poolpass/syncbridge/internal/models/dtos"
	gormModels "poolpass/syncbridge/internal/models/gorm"

	"gorm.io/gorm"
)

// hoursPerRentalDay converts a provider's daily rate into the
// marketplace's hourly rate. Crude, but it matches how hosts price a
// typical 8-hour rental day.
const hoursPerRentalDay = 8

// ImportService pulls candidate pool records from a connected external
// system, maintains external-id to internal-pool mappings, and
// materializes imported records into live listings.
type ImportService struct {
	db             *gorm.DB
	integrationSvc *IntegrationService
	mappingRepo    *repositories.PoolMappingRepository
	cache          common.CacheInterface
}

// NewImportService creates a new import service
func NewImportService(
	db *gorm.DB,
	integrationSvc *IntegrationService,
	mappingRepo *repositories.PoolMappingRepository,
	cache common.CacheInterface,
) *ImportService {
	return &ImportService{
		db:             db,
		integrationSvc: integrationSvc,
		mappingRepo:    mappingRepo,
		cache:          cache,
	}
}

// ImportPools fetches the provider's pool resource and upserts one mapping
// row holding the raw import snapshot. Each integration currently maps a
// single external resource, so the result is a one-element list.
func (s *ImportService) ImportPools(ctx context.Context, integrationID string) ([]dtos.ImportedPool, error) {
	adapter, integration, err := s.integrationSvc.AdapterFor(ctx, integrationID)
	if err != nil {
		return nil, err
	}

	details, err := adapter.GetPoolDetails(ctx)
	if err != nil {
		return nil, err
	}

	snapshot, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot import: %w", err)
	}

	mapping := &gormModels.PoolMapping{
		IntegrationID:    integration.ID,
		ExternalPoolID:   details.ExternalID,
		ExternalPoolName: details.Title,
		ConfigData:       snapshot,
	}
	if err := s.mappingRepo.Upsert(ctx, mapping); err != nil {
		return nil, err
	}

	logging.Info("Imported pool from provider",
		"integration_id", integration.ID,
		"external_pool_id", details.ExternalID,
		"mapping_id", mapping.ID,
	)

	return []dtos.ImportedPool{{MappingID: mapping.ID, Details: *details}}, nil
}

// GetPoolMappings returns an integration's mappings, newest first
func (s *ImportService) GetPoolMappings(ctx context.Context, integrationID string) ([]gormModels.PoolMapping, error) {
	return s.mappingRepo.ListByIntegration(ctx, integrationID)
}

// CreatePoolFromImport materializes an imported record into an internal
// pool listing and backfills the mapping's poolpass_pool_id, both inside
// one transaction so a failed backfill never strands a listing.
func (s *ImportService) CreatePoolFromImport(ctx context.Context, hostID string, imported dtos.PoolDetails, mappingID string) (*gormModels.Pool, error) {
	mapping, err := s.mappingRepo.GetByID(ctx, mappingID)
	if err != nil {
		return nil, err
	}
	if mapping == nil {
		return nil, fmt.Errorf("pool mapping %s not found", mappingID)
	}

	amenities, err := json.Marshal(imported.Amenities)
	if err != nil {
		return nil, fmt.Errorf("failed to encode amenities: %w", err)
	}
	images, err := json.Marshal(imported.Images)
	if err != nil {
		return nil, fmt.Errorf("failed to encode images: %w", err)
	}

	pool := &gormModels.Pool{
		HostID:       hostID,
		Title:        imported.Title,
		Description:  imported.Description,
		Location:     imported.Location,
		PricePerHour: imported.PricePerDay / hoursPerRentalDay,
		MaxGuests:    imported.MaxGuests,
		Amenities:    amenities,
		Images:       images,
		IsActive:     false,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(pool).Error; err != nil {
			return fmt.Errorf("failed to create pool: %w", err)
		}
		res := tx.Model(&gormModels.PoolMapping{}).
			Where("id = ?", mappingID).
			Update("poolpass_pool_id", pool.ID)
		if res.Error != nil {
			return fmt.Errorf("failed to backfill mapping: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("pool mapping %s disappeared during materialization", mappingID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Info("Materialized pool from import",
		"pool_id", pool.ID,
		"mapping_id", mappingID,
		"host_id", hostID,
	)
	return pool, nil
}

// SyncAvailability is a thin passthrough to the adapter. Writing the
// normalized slots back into the marketplace availability store is a
// separate follow-up; callers today only display the window.
// TODO: persist the returned slots into pool availability once the
// marketplace calendar table gains an external-occupancy column.
func (s *ImportService) SyncAvailability(ctx context.Context, integrationID string) ([]dtos.AvailabilitySlot, error) {
	// Cached as a JSON string so the entry survives the Redis cache's
	// serialization round trip; the in-memory cache stores it as-is.
	cacheKey := "availability:" + integrationID
	if s.cache != nil {
		if cached, ok := s.cache.Get(cacheKey); ok {
			if payload, ok := cached.(string); ok {
				var slots []dtos.AvailabilitySlot
				if err := json.Unmarshal([]byte(payload), &slots); err == nil {
					return slots, nil
				}
			}
		}
	}

	adapter, _, err := s.integrationSvc.AdapterFor(ctx, integrationID)
	if err != nil {
		return nil, err
	}

	slots, err := adapter.GetAvailability(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(slots); err == nil {
			s.cache.Set(cacheKey, string(payload), 5*time.Minute)
		}
	}
	return slots, nil
}
