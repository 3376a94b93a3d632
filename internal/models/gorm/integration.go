package gorm

import "time"

// Integration is a host's configured connection to one external
// property-management system.
type Integration struct {
	ID         string     `gorm:"column:id;primaryKey;type:uuid"`
	HostID     string     `gorm:"column:host_id;type:uuid;not null;index"`
	Provider   string     `gorm:"column:provider;type:varchar(50);not null"`
	Label      string     `gorm:"column:label;type:varchar(120)"`
	BaseURL    string     `gorm:"column:base_url;type:varchar(255)"`
	IsActive   bool       `gorm:"column:is_active;default:true"`
	LastSyncAt *time.Time `gorm:"column:last_sync_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Credentials []IntegrationCredential `gorm:"foreignKey:IntegrationID"`
}

// TableName specifies the table name for GORM
func (Integration) TableName() string {
	return "integrations"
}
