package repositories

import (
	"context"
	"fmt"
	"time"

	gormModels "poolpass/syncbridge/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WebhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

// CreateIfAbsent appends the inbound event to the audit log unless its
// dedupe key was already recorded. Returns false for redeliveries; the
// caller then skips processing entirely.
func (r *WebhookEventRepository) CreateIfAbsent(ctx context.Context, event *gormModels.WebhookEvent) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dedupe_key"}},
			DoNothing: true,
		}).
		Create(event)
	if res.Error != nil {
		return false, fmt.Errorf("failed to log webhook event: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// MarkProcessed flips the processed flag on the specific row just
// handled. The row id is threaded through from CreateIfAbsent rather
// than re-queried by type.
func (r *WebhookEventRepository) MarkProcessed(ctx context.Context, eventID string) error {
	now := time.Now().UTC()
	err := r.db.WithContext(ctx).
		Model(&gormModels.WebhookEvent{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"processed":    true,
			"processed_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark webhook event processed: %w", err)
	}
	return nil
}

// ListByIntegration returns an integration's webhook audit log, newest first
func (r *WebhookEventRepository) ListByIntegration(ctx context.Context, integrationID string, limit int) ([]gormModels.WebhookEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	var events []gormModels.WebhookEvent
	err := r.db.WithContext(ctx).
		Where("integration_id = ?", integrationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list webhook events: %w", err)
	}
	return events, nil
}
