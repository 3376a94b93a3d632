package repositories

import (
	"context"
	"fmt"
	"time"

	gormModels "poolpass/syncbridge/internal/models/gorm"

	"gorm.io/gorm"
)

type SyncLogRepository struct {
	db *gorm.DB
}

func NewSyncLogRepository(db *gorm.DB) *SyncLogRepository {
	return &SyncLogRepository{db: db}
}

// Create appends one sync attempt row
func (r *SyncLogRepository) Create(ctx context.Context, log *gormModels.SyncLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to create sync log: %w", err)
	}
	return nil
}

// Complete finalizes a log row's status, message and completion time.
// This is the only mutation sync logs ever receive.
func (r *SyncLogRepository) Complete(ctx context.Context, logID, status, message string, payload []byte) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":       status,
		"message":      message,
		"completed_at": now,
	}
	if payload != nil {
		updates["synced_data"] = payload
	}

	err := r.db.WithContext(ctx).
		Model(&gormModels.SyncLog{}).
		Where("id = ?", logID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to complete sync log: %w", err)
	}
	return nil
}

// ListByIntegration returns an integration's sync history, newest first
func (r *SyncLogRepository) ListByIntegration(ctx context.Context, integrationID string, limit int) ([]gormModels.SyncLog, error) {
	if limit <= 0 {
		limit = 50
	}

	var logs []gormModels.SyncLog
	err := r.db.WithContext(ctx).
		Where("integration_id = ?", integrationID).
		Order("started_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sync logs: %w", err)
	}
	return logs, nil
}
