package api

import (
	"fmt"
	"os"
	"time"

	"poolpass/syncbridge/internal/common"
	"poolpass/syncbridge/internal/db"
	"poolpass/syncbridge/internal/db/repositories"
	"poolpass/syncbridge/internal/metrics"
	"poolpass/syncbridge/internal/providers"
	"poolpass/syncbridge/internal/scheduler"
	"poolpass/syncbridge/internal/services"
)

// webhookDedupeTTL covers the longest redelivery window we have seen a
// provider use.
const webhookDedupeTTL = 24 * time.Hour

type Repositories struct {
	Integration  *repositories.IntegrationRepository
	PoolMapping  *repositories.PoolMappingRepository
	SyncSchedule *repositories.SyncScheduleRepository
	SyncLog      *repositories.SyncLogRepository
	SyncConflict *repositories.SyncConflictRepository
	WebhookEvent *repositories.WebhookEventRepository
	Notification *repositories.NotificationRepository
	Pool         *repositories.PoolRepository
	Booking      *repositories.BookingRepository
}

type Services struct {
	Cache       common.CacheInterface
	Integration *services.IntegrationService
	Import      *services.ImportService
	Sync        *services.SyncService
	Webhook     *services.WebhookService
	Scheduler   *scheduler.SyncScheduler
	URLSigner   *common.WebhookURLSigner
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
}

func InitDependencies(metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	repos := &Repositories{
		Integration:  repositories.NewIntegrationRepository(db.PgDB),
		PoolMapping:  repositories.NewPoolMappingRepository(db.DB),
		SyncSchedule: repositories.NewSyncScheduleRepository(db.DB),
		SyncLog:      repositories.NewSyncLogRepository(db.PgDB),
		SyncConflict: repositories.NewSyncConflictRepository(db.PgDB),
		WebhookEvent: repositories.NewWebhookEventRepository(db.PgDB),
		Notification: repositories.NewNotificationRepository(db.PgDB),
		Pool:         repositories.NewPoolRepository(db.PgDB),
		Booking:      repositories.NewBookingRepository(db.PgDB),
	}

	cipher, err := common.NewCredentialCipher(os.Getenv("CREDENTIAL_ENCRYPTION_KEY"))
	if err != nil {
		return nil, fmt.Errorf("credential cipher init failed: %w", err)
	}

	var signer *common.WebhookURLSigner
	if secret := os.Getenv("WEBHOOK_SIGNING_SECRET"); secret != "" {
		signer = common.NewWebhookURLSigner([]byte(secret))
	}

	// Redis is optional; webhook dedupe falls back to the database
	// uniqueness constraint when it is absent.
	redisClient := common.NewRedisClient()

	var cacheSvc common.CacheInterface
	if redisClient != nil {
		cacheSvc = common.NewRedisCacheService(redisClient)
	} else {
		cacheSvc = common.NewCacheService(300, 600)
	}

	factory := providers.NewFactory()

	integrationSvc := services.NewIntegrationService(repos.Integration, factory, cipher)
	importSvc := services.NewImportService(db.PgDB, integrationSvc, repos.PoolMapping, cacheSvc)
	syncSvc := services.NewSyncService(integrationSvc, repos.Integration, repos.SyncLog, repos.Pool, metricsReg)
	syncScheduler := scheduler.NewSyncScheduler(repos.SyncSchedule, syncSvc, metricsReg)
	webhookSvc := services.NewWebhookService(
		repos.WebhookEvent,
		repos.PoolMapping,
		repos.SyncConflict,
		repos.Booking,
		repos.Notification,
		common.NewDedupeService(redisClient, webhookDedupeTTL),
		syncScheduler,
		metricsReg,
	)

	svcs := &Services{
		Cache:       cacheSvc,
		Integration: integrationSvc,
		Import:      importSvc,
		Sync:        syncSvc,
		Webhook:     webhookSvc,
		Scheduler:   syncScheduler,
		URLSigner:   signer,
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
	}, nil
}
