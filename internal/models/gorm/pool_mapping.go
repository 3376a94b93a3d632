package gorm

import "time"

// PoolMapping links one external resource id to at most one internal pool
// listing. PoolpassPoolID stays null until the host materializes the
// imported record into a live listing.
type PoolMapping struct {
	ID               string    `gorm:"column:id;primaryKey;type:uuid"`
	IntegrationID    string    `gorm:"column:integration_id;type:uuid;not null;uniqueIndex:ux_pool_mappings_integration_external,priority:1"`
	ExternalPoolID   string    `gorm:"column:external_pool_id;type:varchar(120);not null;uniqueIndex:ux_pool_mappings_integration_external,priority:2"`
	ExternalPoolName string    `gorm:"column:external_pool_name;type:varchar(200)"`
	PoolpassPoolID   *string   `gorm:"column:poolpass_pool_id;type:uuid"`
	ConfigData       []byte    `gorm:"column:config_data"` // last-imported raw record, JSON
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (PoolMapping) TableName() string {
	return "pool_mappings"
}
