package gorm

import "time"

// Notification is a host-facing message emitted by the sync subsystem.
type Notification struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid"`
	HostID    string    `gorm:"column:host_id;type:uuid;not null;index"`
	Kind      string    `gorm:"column:kind;type:varchar(40);not null"`
	Title     string    `gorm:"column:title;type:varchar(200)"`
	Body      string    `gorm:"column:body;type:text"`
	IsUrgent  bool      `gorm:"column:is_urgent;default:false"`
	IsRead    bool      `gorm:"column:is_read;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}
