package gorm

import "time"

// SyncLog is the append-only record of one sync attempt. Rows are never
// mutated after creation except for status and the completion timestamp.
type SyncLog struct {
	ID            string     `gorm:"column:id;primaryKey;type:uuid"`
	IntegrationID string     `gorm:"column:integration_id;type:uuid;not null;index"`
	PoolID        *string    `gorm:"column:pool_id;type:uuid"`
	SyncType      string     `gorm:"column:sync_type;type:varchar(30);not null"`
	Status        string     `gorm:"column:status;type:varchar(20);not null"`
	Message       string     `gorm:"column:message;type:text"`
	SyncedData    []byte     `gorm:"column:synced_data"` // payload snapshot, JSON
	StartedAt     time.Time  `gorm:"column:started_at;autoCreateTime"`
	CompletedAt   *time.Time `gorm:"column:completed_at"`
}

// TableName specifies the table name for GORM
func (SyncLog) TableName() string {
	return "sync_logs"
}
