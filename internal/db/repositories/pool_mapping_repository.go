package repositories

import (
	"context"
	"database/sql"
	"fmt"

	gormModels "poolpass/syncbridge/internal/models/gorm"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PoolMappingRepository struct {
	db *sqlx.DB
}

func NewPoolMappingRepository(db *sqlx.DB) *PoolMappingRepository {
	return &PoolMappingRepository{db: db}
}

// mappingRow mirrors pool_mappings for sqlx scanning
type mappingRow struct {
	ID               string         `db:"id"`
	IntegrationID    string         `db:"integration_id"`
	ExternalPoolID   string         `db:"external_pool_id"`
	ExternalPoolName string         `db:"external_pool_name"`
	PoolpassPoolID   sql.NullString `db:"poolpass_pool_id"`
	ConfigData       []byte         `db:"config_data"`
}

func (r mappingRow) toModel() gormModels.PoolMapping {
	m := gormModels.PoolMapping{
		ID:               r.ID,
		IntegrationID:    r.IntegrationID,
		ExternalPoolID:   r.ExternalPoolID,
		ExternalPoolName: r.ExternalPoolName,
		ConfigData:       r.ConfigData,
	}
	if r.PoolpassPoolID.Valid {
		v := r.PoolpassPoolID.String
		m.PoolpassPoolID = &v
	}
	return m
}

// Upsert inserts a mapping or refreshes the import snapshot when the
// (integration, external pool) pair already exists. The backfilled
// poolpass_pool_id is never clobbered by a re-import.
func (r *PoolMappingRepository) Upsert(ctx context.Context, mapping *gormModels.PoolMapping) error {
	if mapping.ID == "" {
		mapping.ID = uuid.New().String()
	}

	const query = `
		INSERT INTO pool_mappings (id, integration_id, external_pool_id, external_pool_name, config_data, created_at, updated_at)
		VALUES (:id, :integration_id, :external_pool_id, :external_pool_name, :config_data, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (integration_id, external_pool_id) DO UPDATE
		SET external_pool_name = EXCLUDED.external_pool_name,
		    config_data = EXCLUDED.config_data,
		    updated_at = CURRENT_TIMESTAMP
	`

	row := mappingRow{
		ID:               mapping.ID,
		IntegrationID:    mapping.IntegrationID,
		ExternalPoolID:   mapping.ExternalPoolID,
		ExternalPoolName: mapping.ExternalPoolName,
		ConfigData:       mapping.ConfigData,
	}

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to upsert pool mapping: %w", err)
	}

	// A conflicting insert keeps the existing row id; re-read it so the
	// caller always holds the persisted id.
	return r.db.GetContext(ctx, &mapping.ID,
		r.db.Rebind(`SELECT id FROM pool_mappings WHERE integration_id = ? AND external_pool_id = ?`),
		mapping.IntegrationID, mapping.ExternalPoolID)
}

// ListByIntegration returns an integration's mappings, newest first
func (r *PoolMappingRepository) ListByIntegration(ctx context.Context, integrationID string) ([]gormModels.PoolMapping, error) {
	var rows []mappingRow

	err := r.db.SelectContext(ctx, &rows,
		r.db.Rebind(`
			SELECT id, integration_id, external_pool_id, external_pool_name, poolpass_pool_id, config_data
			FROM pool_mappings
			WHERE integration_id = ?
			ORDER BY created_at DESC`),
		integrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pool mappings: %w", err)
	}

	mappings := make([]gormModels.PoolMapping, len(rows))
	for i, row := range rows {
		mappings[i] = row.toModel()
	}
	return mappings, nil
}

// GetByExternalID resolves the mapping for an external pool id, nil when
// no mapping exists
func (r *PoolMappingRepository) GetByExternalID(ctx context.Context, integrationID, externalPoolID string) (*gormModels.PoolMapping, error) {
	var row mappingRow

	err := r.db.GetContext(ctx, &row,
		r.db.Rebind(`
			SELECT id, integration_id, external_pool_id, external_pool_name, poolpass_pool_id, config_data
			FROM pool_mappings
			WHERE integration_id = ? AND external_pool_id = ?`),
		integrationID, externalPoolID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pool mapping: %w", err)
	}

	m := row.toModel()
	return &m, nil
}

// GetByID fetches one mapping by id, nil when not found
func (r *PoolMappingRepository) GetByID(ctx context.Context, id string) (*gormModels.PoolMapping, error) {
	var row mappingRow

	err := r.db.GetContext(ctx, &row,
		r.db.Rebind(`
			SELECT id, integration_id, external_pool_id, external_pool_name, poolpass_pool_id, config_data
			FROM pool_mappings
			WHERE id = ?`),
		id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pool mapping: %w", err)
	}

	m := row.toModel()
	return &m, nil
}

// SetPoolpassPoolID backfills the internal pool id after materialization
func (r *PoolMappingRepository) SetPoolpassPoolID(ctx context.Context, mappingID, poolID string) error {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind(`UPDATE pool_mappings SET poolpass_pool_id = ? WHERE id = ?`),
		poolID, mappingID)
	if err != nil {
		return fmt.Errorf("failed to backfill pool id: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
