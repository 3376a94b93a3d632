package gorm

import "time"

// SyncConflict records one detected disagreement between an internal
// booking and an external event. ExternalSignature is derived from the
// external side of the overlap so a redelivered webhook cannot insert the
// same conflict twice.
type SyncConflict struct {
	ID                string     `gorm:"column:id;primaryKey;type:uuid"`
	ConflictType      string     `gorm:"column:conflict_type;type:varchar(40);not null"`
	PoolID            string     `gorm:"column:pool_id;type:uuid;not null;uniqueIndex:ux_sync_conflicts_pool_signature,priority:1"`
	ExternalPoolID    string     `gorm:"column:external_pool_id;type:varchar(120)"`
	ExternalSignature string     `gorm:"column:external_signature;type:varchar(64);not null;uniqueIndex:ux_sync_conflicts_pool_signature,priority:2"`
	ConflictData      []byte     `gorm:"column:conflict_data"` // both sides of the disagreement, JSON
	Status            string     `gorm:"column:status;type:varchar(20);not null;default:pending"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
	ResolvedAt        *time.Time `gorm:"column:resolved_at"`
}

// TableName specifies the table name for GORM
func (SyncConflict) TableName() string {
	return "sync_conflicts"
}
