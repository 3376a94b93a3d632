package gorm

import "time"

// Pool is an internal marketplace pool listing. Listings materialized from
// a CRM import start inactive pending approval.
type Pool struct {
	ID           string    `gorm:"column:id;primaryKey;type:uuid"`
	HostID       string    `gorm:"column:host_id;type:uuid;not null;index"`
	Title        string    `gorm:"column:title;type:varchar(200);not null"`
	Description  string    `gorm:"column:description;type:text"`
	Location     string    `gorm:"column:location;type:varchar(200)"`
	PricePerHour float64   `gorm:"column:price_per_hour"`
	MaxGuests    int       `gorm:"column:max_guests"`
	Amenities    []byte    `gorm:"column:amenities"` // JSON array
	Images       []byte    `gorm:"column:images"`    // JSON array
	IsActive     bool      `gorm:"column:is_active;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Pool) TableName() string {
	return "pools"
}
