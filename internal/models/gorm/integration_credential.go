package gorm

import "time"

// IntegrationCredential holds one encrypted credential value for an
// integration. Values are AES-GCM sealed before insert and never stored
// or logged in the clear.
type IntegrationCredential struct {
	ID             string     `gorm:"column:id;primaryKey;type:uuid"`
	IntegrationID  string     `gorm:"column:integration_id;type:uuid;not null;index"`
	CredentialKind string     `gorm:"column:credential_kind;type:varchar(30);not null"`
	EncryptedValue string     `gorm:"column:encrypted_value;type:text;not null"`
	ExpiresAt      *time.Time `gorm:"column:expires_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`

	// Relationships
	Integration Integration `gorm:"foreignKey:IntegrationID"`
}

// TableName specifies the table name for GORM
func (IntegrationCredential) TableName() string {
	return "integration_credentials"
}
