package dtos

import "time"

// CreateIntegrationRequest is the payload for connecting an external
// system. Credential values are plaintext in transit and sealed before
// they reach storage.
type CreateIntegrationRequest struct {
	Provider    string            `json:"provider"`
	Label       string            `json:"label"`
	BaseURL     string            `json:"base_url"`
	Credentials map[string]string `json:"credentials"`
}

// ToggleIntegrationRequest enables or disables an existing integration.
type ToggleIntegrationRequest struct {
	Active bool `json:"active"`
}

// TriggerSyncRequest requests one on-demand sync run.
type TriggerSyncRequest struct {
	SyncType string `json:"sync_type"`
}

// CreateScheduleRequest registers or replaces a recurring sync cadence.
type CreateScheduleRequest struct {
	SyncType  string `json:"sync_type"`
	Frequency string `json:"frequency"`
}

// ResolveConflictRequest closes out a pending sync conflict.
type ResolveConflictRequest struct {
	Status string `json:"status"`
}

// IntegrationInfo is the external view of an integration. Credentials are
// deliberately absent.
type IntegrationInfo struct {
	ID         string     `json:"id"`
	Provider   string     `json:"provider"`
	Label      string     `json:"label"`
	BaseURL    string     `json:"base_url"`
	IsActive   bool       `json:"is_active"`
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ConnectionTestResult reports a credential probe against the provider.
type ConnectionTestResult struct {
	Connected bool `json:"connected"`
}

// PoolMappingInfo is the external view of an import mapping row.
type PoolMappingInfo struct {
	ID               string    `json:"id"`
	IntegrationID    string    `json:"integration_id"`
	ExternalPoolID   string    `json:"external_pool_id"`
	ExternalPoolName string    `json:"external_pool_name"`
	PoolpassPoolID   *string   `json:"poolpass_pool_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// SyncLogInfo is the external view of one sync execution record.
type SyncLogInfo struct {
	ID          string     `json:"id"`
	SyncType    string     `json:"sync_type"`
	Status      string     `json:"status"`
	Message     string     `json:"message,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ConflictInfo is the external view of a detected sync conflict.
type ConflictInfo struct {
	ID           string     `json:"id"`
	PoolID       string     `json:"pool_id"`
	ConflictType string     `json:"conflict_type"`
	Status       string     `json:"status"`
	ConflictData string     `json:"conflict_data,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
}

// NotificationInfo is the external view of a host notification.
type NotificationInfo struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	IsUrgent  bool      `json:"is_urgent"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// WebhookURLInfo carries a freshly signed webhook callback URL.
type WebhookURLInfo struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
