package gorm

import "time"

// Booking is an internal reservation against a pool. Dates and times are
// stored as strings ("2006-01-02", "15:04") so overlap comparisons match
// the lexicographic semantics of the booking calendar.
type Booking struct {
	ID          string    `gorm:"column:id;primaryKey;type:uuid"`
	PoolID      string    `gorm:"column:pool_id;type:uuid;not null;index"`
	GuestID     string    `gorm:"column:guest_id;type:uuid"`
	BookingDate string    `gorm:"column:booking_date;type:varchar(10);not null;index"`
	StartTime   string    `gorm:"column:start_time;type:varchar(5);not null"`
	EndTime     string    `gorm:"column:end_time;type:varchar(5);not null"`
	Status      string    `gorm:"column:status;type:varchar(20);default:confirmed"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Booking) TableName() string {
	return "bookings"
}
