package repositories

import (
	"context"
	"fmt"

	gormModels "poolpass/syncbridge/internal/models/gorm"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts one host notification
func (r *NotificationRepository) Create(ctx context.Context, n *gormModels.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListByHost returns a host's notifications, newest first
func (r *NotificationRepository) ListByHost(ctx context.Context, hostID string, limit int) ([]gormModels.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	var notifications []gormModels.Notification
	err := r.db.WithContext(ctx).
		Where("host_id = ?", hostID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}
