package repositories

import (
	"context"
	"fmt"
	"time"

	gormModels "poolpass/syncbridge/internal/models/gorm"

	"gorm.io/gorm"
)

type IntegrationRepository struct {
	db *gorm.DB
}

func NewIntegrationRepository(db *gorm.DB) *IntegrationRepository {
	return &IntegrationRepository{db: db}
}

// GetByID fetches an integration by id, nil when not found
func (r *IntegrationRepository) GetByID(ctx context.Context, id string) (*gormModels.Integration, error) {
	var integration gormModels.Integration

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&integration).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get integration: %w", err)
	}

	return &integration, nil
}

// GetWithCredentials fetches an integration together with its credentials
func (r *IntegrationRepository) GetWithCredentials(ctx context.Context, id string) (*gormModels.Integration, error) {
	var integration gormModels.Integration

	err := r.db.WithContext(ctx).
		Preload("Credentials").
		Where("id = ?", id).
		First(&integration).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get integration with credentials: %w", err)
	}

	return &integration, nil
}

// ListByHost fetches all integrations for a host, newest first
func (r *IntegrationRepository) ListByHost(ctx context.Context, hostID string) ([]gormModels.Integration, error) {
	var integrations []gormModels.Integration

	err := r.db.WithContext(ctx).
		Where("host_id = ?", hostID).
		Order("created_at DESC").
		Find(&integrations).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}

	return integrations, nil
}

// CreateWithCredentials inserts the integration and its credential rows in
// one transaction so a partial connect never leaves orphaned secrets.
func (r *IntegrationRepository) CreateWithCredentials(
	ctx context.Context,
	integration *gormModels.Integration,
	credentials []gormModels.IntegrationCredential,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(integration).Error; err != nil {
			return fmt.Errorf("failed to create integration: %w", err)
		}
		for i := range credentials {
			credentials[i].IntegrationID = integration.ID
		}
		if len(credentials) > 0 {
			if err := tx.Create(&credentials).Error; err != nil {
				return fmt.Errorf("failed to create credentials: %w", err)
			}
		}
		return nil
	})
}

// SetActive toggles the integration's active flag
func (r *IntegrationRepository) SetActive(ctx context.Context, id string, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Integration{}).
		Where("id = ?", id).
		Update("is_active", active)

	if res.Error != nil {
		return fmt.Errorf("failed to toggle integration: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TouchLastSync records a successful sync completion time
func (r *IntegrationRepository) TouchLastSync(ctx context.Context, id string, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&gormModels.Integration{}).
		Where("id = ?", id).
		Update("last_sync_at", at).Error

	if err != nil {
		return fmt.Errorf("failed to update last_sync_at: %w", err)
	}
	return nil
}
