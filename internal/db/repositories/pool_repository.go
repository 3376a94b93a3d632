package repositories

import (
	"context"
	"fmt"

	gormModels "poolpass/syncbridge/internal/models/gorm"

	"gorm.io/gorm"
)

type PoolRepository struct {
	db *gorm.DB
}

func NewPoolRepository(db *gorm.DB) *PoolRepository {
	return &PoolRepository{db: db}
}

// GetByID fetches a pool by id, nil when not found
func (r *PoolRepository) GetByID(ctx context.Context, id string) (*gormModels.Pool, error) {
	var pool gormModels.Pool

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&pool).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}
	return &pool, nil
}

// ListByHost returns a host's pools, oldest first
func (r *PoolRepository) ListByHost(ctx context.Context, hostID string) ([]gormModels.Pool, error) {
	var pools []gormModels.Pool

	err := r.db.WithContext(ctx).
		Where("host_id = ?", hostID).
		Order("created_at ASC").
		Find(&pools).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}
	return pools, nil
}

// Create inserts a new pool listing
func (r *PoolRepository) Create(ctx context.Context, pool *gormModels.Pool) error {
	if err := r.db.WithContext(ctx).Create(pool).Error; err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}
	return nil
}

// UpsertForHost updates the host's existing pool from synced details, or
// inserts a new inactive listing pending approval when none exists yet.
func (r *PoolRepository) UpsertForHost(ctx context.Context, pool *gormModels.Pool) error {
	var existing gormModels.Pool

	err := r.db.WithContext(ctx).
		Where("host_id = ?", pool.HostID).
		Order("created_at ASC").
		First(&existing).Error

	if err == gorm.ErrRecordNotFound {
		pool.IsActive = false
		if err := r.db.WithContext(ctx).Create(pool).Error; err != nil {
			return fmt.Errorf("failed to insert pool: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up host pool: %w", err)
	}

	pool.ID = existing.ID
	updates := map[string]interface{}{
		"title":          pool.Title,
		"description":    pool.Description,
		"location":       pool.Location,
		"price_per_hour": pool.PricePerHour,
		"max_guests":     pool.MaxGuests,
		"amenities":      pool.Amenities,
		"images":         pool.Images,
	}
	err = r.db.WithContext(ctx).
		Model(&gormModels.Pool{}).
		Where("id = ?", existing.ID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to update pool: %w", err)
	}
	return nil
}
