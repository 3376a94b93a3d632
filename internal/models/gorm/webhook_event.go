package gorm

import "time"

// WebhookEvent is the append-only audit log of inbound provider pushes.
// DedupeKey is a hash over the event's identifying fields; the unique
// index makes redelivered webhooks a no-op instead of a double-process.
type WebhookEvent struct {
	ID             string     `gorm:"column:id;primaryKey;type:uuid"`
	Source         string     `gorm:"column:source;type:varchar(50);not null"`
	EventType      string     `gorm:"column:event_type;type:varchar(50);not null"`
	IntegrationID  string     `gorm:"column:integration_id;type:uuid;not null;index"`
	ExternalPoolID string     `gorm:"column:external_pool_id;type:varchar(120)"`
	DedupeKey      string     `gorm:"column:dedupe_key;type:varchar(64);not null;uniqueIndex"`
	Payload        []byte     `gorm:"column:payload"` // raw inbound body, JSON
	Processed      bool       `gorm:"column:processed;default:false"`
	ProcessedAt    *time.Time `gorm:"column:processed_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (WebhookEvent) TableName() string {
	return "webhook_events"
}
