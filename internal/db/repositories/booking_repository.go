package repositories

import (
	"context"
	"fmt"

	gormModels "poolpass/syncbridge/internal/models/gorm"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts one booking
func (r *BookingRepository) Create(ctx context.Context, booking *gormModels.Booking) error {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// FindOverlapping returns the pool's bookings on the given date whose time
// range overlaps [start, end]. The comparison is inclusive on both ends,
// so exactly-touching ranges count as overlapping.
func (r *BookingRepository) FindOverlapping(ctx context.Context, poolID, date, start, end string) ([]gormModels.Booking, error) {
	var bookings []gormModels.Booking

	err := r.db.WithContext(ctx).
		Where("pool_id = ? AND booking_date = ? AND start_time <= ? AND end_time >= ?",
			poolID, date, end, start).
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping bookings: %w", err)
	}
	return bookings, nil
}
