package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"poolpass/syncbridge/internal/common"
	"poolpass/syncbridge/internal/constants"
	"poolpass/syncbridge/internal/db/repositories"
	"poolpass/syncbridge/internal/logging"
	"poolpass/syncbridge/internal/metrics"
	"poolpass/syncbridge/internal/models/dtos"
	gormModels "poolpass/syncbridge/internal/models/gorm"
)

// SyncRescheduler is the slice of the scheduler the webhook handler
// needs. Defined here so the scheduler package can depend on services
// without a cycle.
type SyncRescheduler interface {
	ScheduleSync(ctx context.Context, integrationID, syncType, frequency string) error
}

// WebhookService reacts to out-of-band pushes from external systems:
// audit-log the event, detect booking conflicts against internal records,
// notify the host, and nudge the relevant sync schedules.
type WebhookService struct {
	eventRepo        *repositories.WebhookEventRepository
	mappingRepo      *repositories.PoolMappingRepository
	conflictRepo     *repositories.SyncConflictRepository
	bookingRepo      *repositories.BookingRepository
	notificationRepo *repositories.NotificationRepository
	dedupe           *common.DedupeService
	rescheduler      SyncRescheduler
	metricsReg       *metrics.MetricsRegistry
}

// NewWebhookService creates a new webhook service
func NewWebhookService(
	eventRepo *repositories.WebhookEventRepository,
	mappingRepo *repositories.PoolMappingRepository,
	conflictRepo *repositories.SyncConflictRepository,
	bookingRepo *repositories.BookingRepository,
	notificationRepo *repositories.NotificationRepository,
	dedupe *common.DedupeService,
	rescheduler SyncRescheduler,
	metricsReg *metrics.MetricsRegistry,
) *WebhookService {
	return &WebhookService{
		eventRepo:        eventRepo,
		mappingRepo:      mappingRepo,
		conflictRepo:     conflictRepo,
		bookingRepo:      bookingRepo,
		notificationRepo: notificationRepo,
		dedupe:           dedupe,
		rescheduler:      rescheduler,
		metricsReg:       metricsReg,
	}
}

// ProcessWebhook handles one inbound event for an already-validated
// integration. It never returns an error for handler-level failures; the
// result carries success=false instead so the HTTP layer stays
// respondable.
func (s *WebhookService) ProcessWebhook(ctx context.Context, integration *gormModels.Integration, req *dtos.WebhookRequest, rawPayload []byte) *dtos.WebhookResult {
	eventType := req.ResolvedEventType()
	dedupeKey := webhookDedupeKey(integration.Provider, eventType, integration.ID, req)

	if !s.dedupe.FirstSeen(ctx, dedupeKey) {
		return &dtos.WebhookResult{Success: true, Message: "duplicate delivery ignored"}
	}

	event := &gormModels.WebhookEvent{
		Source:         integration.Provider,
		EventType:      eventType,
		IntegrationID:  integration.ID,
		ExternalPoolID: req.ResolvedPoolID(),
		DedupeKey:      dedupeKey,
		Payload:        rawPayload,
	}
	created, err := s.eventRepo.CreateIfAbsent(ctx, event)
	if err != nil {
		// Audit logging is best effort; processing continues
		logging.Error("Failed to log webhook event",
			"integration_id", integration.ID,
			"event_type", eventType,
			"error", err.Error(),
		)
	} else if !created {
		return &dtos.WebhookResult{Success: true, Message: "duplicate delivery ignored"}
	}

	result := s.dispatch(ctx, integration, eventType, req)

	if created {
		if err := s.eventRepo.MarkProcessed(ctx, event.ID); err != nil {
			logging.Error("Failed to mark webhook event processed",
				"event_id", event.ID,
				"error", err.Error(),
			)
		}
	}

	if s.metricsReg != nil {
		status := "ok"
		if !result.Success {
			status = "failed"
		}
		s.metricsReg.WebhookEventsTotal.WithLabelValues(eventType, status).Inc()
	}
	return result
}

func (s *WebhookService) dispatch(ctx context.Context, integration *gormModels.Integration, eventType string, req *dtos.WebhookRequest) *dtos.WebhookResult {
	switch eventType {
	case constants.EventBookingCreated, constants.EventBookingUpdated, constants.EventBookingCancelled:
		return s.handleBookingEvent(ctx, integration, eventType, req)
	case constants.EventAvailabilityChanged:
		return s.handleAvailabilityEvent(ctx, integration, req)
	case constants.EventPoolUpdated:
		return s.handlePoolEvent(ctx, integration)
	default:
		return &dtos.WebhookResult{Success: false, Message: fmt.Sprintf("unknown event type %q", eventType)}
	}
}

// handleBookingEvent resolves the mapping, runs conflict detection against
// internal bookings, persists conflicts, notifies the host, and nudges the
// availability schedule.
func (s *WebhookService) handleBookingEvent(ctx context.Context, integration *gormModels.Integration, eventType string, req *dtos.WebhookRequest) *dtos.WebhookResult {
	externalPoolID := req.ResolvedPoolID()

	mapping, err := s.mappingRepo.GetByExternalID(ctx, integration.ID, externalPoolID)
	if err != nil {
		return &dtos.WebhookResult{Success: false, Message: err.Error(), Internal: true}
	}
	if mapping == nil || mapping.PoolpassPoolID == nil {
		logging.Warn("Booking event for unmapped external pool",
			"integration_id", integration.ID,
			"external_pool_id", externalPoolID,
			"event_type", eventType,
		)
		return &dtos.WebhookResult{Success: true, Message: "no mapping for external pool, event ignored"}
	}
	poolID := *mapping.PoolpassPoolID

	conflicts, err := s.DetectBookingConflicts(ctx, poolID, req.ResolvedDate(), req.StartTime, req.EndTime)
	if err != nil {
		return &dtos.WebhookResult{Success: false, Message: err.Error(), Internal: true}
	}

	for _, booking := range conflicts {
		if err := s.recordConflict(ctx, integration, poolID, externalPoolID, booking, req); err != nil {
			log.Printf("[WebhookService] Failed to record conflict for pool %s: %v", poolID, err)
		}
	}

	if err := s.rescheduler.ScheduleSync(ctx, integration.ID, constants.SyncTypeAvailability, constants.FrequencyHourly); err != nil {
		log.Printf("[WebhookService] Failed to reschedule availability sync for %s: %v", integration.ID, err)
	}

	s.notify(ctx, integration.HostID, &gormModels.Notification{
		Kind:  constants.NotificationSyncEvent,
		Title: "External booking update",
		Body: fmt.Sprintf("%s reported %s for %s %s-%s",
			integration.Provider, strings.ReplaceAll(eventType, "_", " "),
			req.ResolvedDate(), req.StartTime, req.EndTime),
	})

	msg := "booking event processed"
	if len(conflicts) > 0 {
		msg = fmt.Sprintf("booking event processed, %d conflict(s) detected", len(conflicts))
	}
	return &dtos.WebhookResult{Success: true, Message: msg}
}

func (s *WebhookService) handleAvailabilityEvent(ctx context.Context, integration *gormModels.Integration, req *dtos.WebhookRequest) *dtos.WebhookResult {
	externalPoolID := req.ResolvedPoolID()

	mapping, err := s.mappingRepo.GetByExternalID(ctx, integration.ID, externalPoolID)
	if err != nil {
		return &dtos.WebhookResult{Success: false, Message: err.Error(), Internal: true}
	}
	if mapping == nil {
		logging.Warn("Availability event for unmapped external pool",
			"integration_id", integration.ID,
			"external_pool_id", externalPoolID,
		)
	}

	if err := s.rescheduler.ScheduleSync(ctx, integration.ID, constants.SyncTypeAvailability, constants.FrequencyHourly); err != nil {
		return &dtos.WebhookResult{Success: false, Message: err.Error(), Internal: true}
	}

	s.notify(ctx, integration.HostID, &gormModels.Notification{
		Kind:  constants.NotificationSyncEvent,
		Title: "External availability change",
		Body:  fmt.Sprintf("%s reported an availability change, a fresh sync was scheduled", integration.Provider),
	})

	return &dtos.WebhookResult{Success: true, Message: "availability sync rescheduled"}
}

func (s *WebhookService) handlePoolEvent(ctx context.Context, integration *gormModels.Integration) *dtos.WebhookResult {
	if err := s.rescheduler.ScheduleSync(ctx, integration.ID, constants.SyncTypePools, constants.FrequencyDaily); err != nil {
		return &dtos.WebhookResult{Success: false, Message: err.Error(), Internal: true}
	}
	return &dtos.WebhookResult{Success: true, Message: "pool details sync rescheduled"}
}

// DetectBookingConflicts returns the pool's internal bookings on the given
// date whose time range overlaps [start, end]. Boundaries compare
// inclusively, so an external event ending exactly when a booking starts
// still counts as a conflict.
func (s *WebhookService) DetectBookingConflicts(ctx context.Context, poolID, date, start, end string) ([]gormModels.Booking, error) {
	if date == "" || start == "" || end == "" {
		return nil, nil
	}
	return s.bookingRepo.FindOverlapping(ctx, poolID, date, start, end)
}

// recordConflict persists one booking overlap and, when it is new, raises
// an urgent notification.
func (s *WebhookService) recordConflict(ctx context.Context, integration *gormModels.Integration, poolID, externalPoolID string, booking gormModels.Booking, req *dtos.WebhookRequest) error {
	conflictData, err := json.Marshal(map[string]interface{}{
		"internal_booking": booking,
		"external_event": map[string]string{
			"pool_id":    externalPoolID,
			"date":       req.ResolvedDate(),
			"start_time": req.StartTime,
			"end_time":   req.EndTime,
			"guest_name": req.GuestName,
		},
	})
	if err != nil {
		return err
	}

	conflict := &gormModels.SyncConflict{
		ConflictType:      constants.ConflictTypeBookingOverlap,
		PoolID:            poolID,
		ExternalPoolID:    externalPoolID,
		ExternalSignature: conflictSignature(externalPoolID, req.ResolvedDate(), req.StartTime, req.EndTime),
		ConflictData:      conflictData,
		Status:            constants.ConflictStatusPending,
	}

	created, err := s.conflictRepo.CreateIfAbsent(ctx, conflict)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	if s.metricsReg != nil {
		s.metricsReg.ConflictsDetectedTotal.Inc()
	}

	s.notify(ctx, integration.HostID, &gormModels.Notification{
		Kind:  constants.NotificationSyncConflict,
		Title: "Booking conflict detected",
		Body: fmt.Sprintf("An external booking on %s %s-%s overlaps an existing reservation",
			req.ResolvedDate(), req.StartTime, req.EndTime),
		IsUrgent: true,
	})
	return nil
}

// ResolveConflict terminally transitions a pending conflict.
func (s *WebhookService) ResolveConflict(ctx context.Context, conflictID, status string) error {
	if status != constants.ConflictStatusResolved && status != constants.ConflictStatusIgnored {
		return fmt.Errorf("invalid resolution status %q", status)
	}
	return s.conflictRepo.Resolve(ctx, conflictID, status)
}

// ListPendingConflicts returns unresolved conflicts for display.
func (s *WebhookService) ListPendingConflicts(ctx context.Context) ([]gormModels.SyncConflict, error) {
	return s.conflictRepo.ListPending(ctx)
}

func (s *WebhookService) notify(ctx context.Context, hostID string, n *gormModels.Notification) {
	n.HostID = hostID
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		log.Printf("[WebhookService] Failed to create notification for host %s: %v", hostID, err)
	}
}

// webhookDedupeKey derives the idempotency key for one delivery.
func webhookDedupeKey(source, eventType, integrationID string, req *dtos.WebhookRequest) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%s|%s|%s",
		source, eventType, integrationID,
		req.ResolvedPoolID(), req.ResolvedDate(), req.StartTime, req.EndTime)
	return hex.EncodeToString(h.Sum(nil))
}

// conflictSignature identifies the external side of an overlap.
func conflictSignature(externalPoolID, date, start, end string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s", externalPoolID, date, start, end)
	return hex.EncodeToString(h.Sum(nil))
}
