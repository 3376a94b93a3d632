package gorm

import "time"

// SyncSchedule is one recurring sync cadence per (integration, sync type).
// ErrorCount increments on failure and resets to zero on success; once it
// crosses the ceiling the schedule is skipped by the sweep until a host
// reschedules it.
type SyncSchedule struct {
	ID            string     `gorm:"column:id;primaryKey;type:uuid"`
	IntegrationID string     `gorm:"column:integration_id;type:uuid;not null;uniqueIndex:ux_sync_schedules_integration_type,priority:1"`
	SyncType      string     `gorm:"column:sync_type;type:varchar(30);not null;uniqueIndex:ux_sync_schedules_integration_type,priority:2"`
	Frequency     string     `gorm:"column:frequency;type:varchar(20);not null"`
	NextRun       time.Time  `gorm:"column:next_run;not null;index"`
	IsActive      bool       `gorm:"column:is_active;default:true"`
	ErrorCount    int        `gorm:"column:error_count;default:0"`
	LastRun       *time.Time `gorm:"column:last_run"`
	LastError     string     `gorm:"column:last_error;type:text"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (SyncSchedule) TableName() string {
	return "sync_schedules"
}
