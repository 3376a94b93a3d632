package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"poolpass/syncbridge/internal/constants"
	"poolpass/syncbridge/internal/db/repositories"
	"poolpass/syncbridge/internal/logging"
	"poolpass/syncbridge/internal/metrics"
	"poolpass/syncbridge/internal/models/dtos"
	gormModels "poolpass/syncbridge/internal/models/gorm"
)

// SyncService executes one sync operation for an integration: load and
// gate the integration, build the adapter, verify connectivity, run the
// operation, and record the outcome as a SyncLog row. Every failure is
// logged before it is returned; retry policy belongs to the caller.
type SyncService struct {
	integrationSvc  *IntegrationService
	integrationRepo *repositories.IntegrationRepository
	syncLogRepo     *repositories.SyncLogRepository
	poolRepo        *repositories.PoolRepository
	metricsReg      *metrics.MetricsRegistry
}

// NewSyncService creates a new sync execution service
func NewSyncService(
	integrationSvc *IntegrationService,
	integrationRepo *repositories.IntegrationRepository,
	syncLogRepo *repositories.SyncLogRepository,
	poolRepo *repositories.PoolRepository,
	metricsReg *metrics.MetricsRegistry,
) *SyncService {
	return &SyncService{
		integrationSvc:  integrationSvc,
		integrationRepo: integrationRepo,
		syncLogRepo:     syncLogRepo,
		poolRepo:        poolRepo,
		metricsReg:      metricsReg,
	}
}

// Execute runs one sync of the given type for an integration.
func (s *SyncService) Execute(ctx context.Context, integrationID, syncType string) error {
	start := time.Now()
	log.Printf("[SyncService] Starting %s sync for integration %s", syncType, integrationID)

	syncLog := &gormModels.SyncLog{
		IntegrationID: integrationID,
		SyncType:      syncType,
		Status:        constants.SyncStatusInProgress,
	}
	if err := s.syncLogRepo.Create(ctx, syncLog); err != nil {
		return err
	}

	payload, err := s.run(ctx, integrationID, syncType)

	status := constants.SyncStatusSuccess
	message := "sync completed"
	if err != nil {
		status = constants.SyncStatusError
		message = err.Error()
	}

	if logErr := s.syncLogRepo.Complete(ctx, syncLog.ID, status, message, payload); logErr != nil {
		log.Printf("[SyncService] Failed to finalize sync log %s: %v", syncLog.ID, logErr)
	}

	logging.WithSync(integrationID, syncType).Infow("Sync finished",
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if s.metricsReg != nil {
		s.metricsReg.SyncsTotal.WithLabelValues(syncType, status).Inc()
		s.metricsReg.SyncDuration.WithLabelValues(syncType).Observe(time.Since(start).Seconds())
	}

	if err != nil {
		log.Printf("[SyncService] %s sync failed for integration %s: %v", syncType, integrationID, err)
		return err
	}

	if err := s.integrationRepo.TouchLastSync(ctx, integrationID, time.Now().UTC()); err != nil {
		log.Printf("[SyncService] Failed to update last_sync_at for %s: %v", integrationID, err)
	}

	log.Printf("[SyncService] Completed %s sync for integration %s in %s",
		syncType, integrationID, time.Since(start).Truncate(time.Millisecond))
	return nil
}

// run performs the adapter work and returns the payload snapshot for the
// sync log.
func (s *SyncService) run(ctx context.Context, integrationID, syncType string) ([]byte, error) {
	adapter, integration, err := s.integrationSvc.AdapterFor(ctx, integrationID)
	if err != nil {
		return nil, err
	}

	ok, err := adapter.TestConnection(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConnectionFailed
	}

	switch syncType {
	case constants.SyncTypeAvailability:
		slots, err := adapter.GetAvailability(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(slots)

	case constants.SyncTypePools:
		details, err := adapter.GetPoolDetails(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.upsertPoolDetails(ctx, integration, details); err != nil {
			return nil, err
		}
		return json.Marshal(details)

	case constants.SyncTypeBookings:
		if err := adapter.SyncBookings(ctx); err != nil {
			return nil, err
		}
		return nil, nil

	default:
		return nil, &InvalidSyncTypeError{SyncType: syncType}
	}
}

// upsertPoolDetails writes synced pool details into the internal pool
// table: update the host's existing listing, or insert a new inactive one
// pending approval.
func (s *SyncService) upsertPoolDetails(ctx context.Context, integration *gormModels.Integration, details *dtos.PoolDetails) error {
	amenities, err := json.Marshal(details.Amenities)
	if err != nil {
		return err
	}
	images, err := json.Marshal(details.Images)
	if err != nil {
		return err
	}

	pool := &gormModels.Pool{
		HostID:       integration.HostID,
		Title:        details.Title,
		Description:  details.Description,
		Location:     details.Location,
		PricePerHour: details.PricePerDay / hoursPerRentalDay,
		MaxGuests:    details.MaxGuests,
		Amenities:    amenities,
		Images:       images,
	}
	return s.poolRepo.UpsertForHost(ctx, pool)
}

// InvalidSyncTypeError marks a request for a sync type outside the closed
// set.
type InvalidSyncTypeError struct {
	SyncType string
}

func (e *InvalidSyncTypeError) Error() string {
	return constants.GetErrorMessage(constants.ErrCodeInvalidSyncType) + ": " + e.SyncType
}
