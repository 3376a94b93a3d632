package repositories

import (
	"context"
	"fmt"
	"time"

	gormModels "poolpass/syncbridge/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SyncConflictRepository struct {
	db *gorm.DB
}

func NewSyncConflictRepository(db *gorm.DB) *SyncConflictRepository {
	return &SyncConflictRepository{db: db}
}

// CreateIfAbsent inserts a conflict unless one with the same
// (pool, external signature) already exists. Returns true when a new row
// was created, so redelivered webhooks do not duplicate conflicts or
// re-notify hosts.
func (r *SyncConflictRepository) CreateIfAbsent(ctx context.Context, conflict *gormModels.SyncConflict) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pool_id"}, {Name: "external_signature"}},
			DoNothing: true,
		}).
		Create(conflict)
	if res.Error != nil {
		return false, fmt.Errorf("failed to create conflict: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// ListPending returns unresolved conflicts, newest first
func (r *SyncConflictRepository) ListPending(ctx context.Context) ([]gormModels.SyncConflict, error) {
	var conflicts []gormModels.SyncConflict
	err := r.db.WithContext(ctx).
		Where("status = ?", "pending").
		Order("created_at DESC").
		Find(&conflicts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conflicts: %w", err)
	}
	return conflicts, nil
}

// ListByPool returns all conflicts for one pool, newest first
func (r *SyncConflictRepository) ListByPool(ctx context.Context, poolID string) ([]gormModels.SyncConflict, error) {
	var conflicts []gormModels.SyncConflict
	err := r.db.WithContext(ctx).
		Where("pool_id = ?", poolID).
		Order("created_at DESC").
		Find(&conflicts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conflicts: %w", err)
	}
	return conflicts, nil
}

// Resolve terminally transitions a pending conflict to resolved or
// ignored. Returns gorm.ErrRecordNotFound when the conflict does not
// exist or was already resolved.
func (r *SyncConflictRepository) Resolve(ctx context.Context, conflictID, status string) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&gormModels.SyncConflict{}).
		Where("id = ? AND status = ?", conflictID, "pending").
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_at": now,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to resolve conflict: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
