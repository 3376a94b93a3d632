package repositories

import (
	"context"
	"testing"

	gormModels "poolpass/syncbridge/internal/models/gorm"

	"github.com/google/uuid"
)

func TestBookingRepository_FindOverlapping(t *testing.T) {
	gdb, _ := setupTestDB(t)
	repo := NewBookingRepository(gdb)
	ctx := context.Background()

	poolID := uuid.NewString()
	booking := &gormModels.Booking{
		PoolID:      poolID,
		GuestID:     uuid.NewString(),
		BookingDate: "2026-09-05",
		StartTime:   "10:00",
		EndTime:     "12:00",
		Status:      "confirmed",
	}
	if err := repo.Create(ctx, booking); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	cases := []struct {
		name        string
		start, end  string
		wantOverlap bool
	}{
		{"contained", "10:30", "11:30", true},
		{"straddles end", "11:00", "13:00", true},
		// Boundary-touching slots count as overlapping.
		{"touches end", "12:00", "13:00", true},
		{"touches start", "09:00", "10:00", true},
		{"after", "12:30", "13:30", false},
		{"before", "08:00", "09:30", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			overlaps, err := repo.FindOverlapping(ctx, poolID, "2026-09-05", tc.start, tc.end)
			if err != nil {
				t.Fatalf("FindOverlapping failed: %v", err)
			}
			if got := len(overlaps) > 0; got != tc.wantOverlap {
				t.Errorf("Slot %s-%s: expected overlap=%v, got %v", tc.start, tc.end, tc.wantOverlap, got)
			}
		})
	}

	// A different day never conflicts.
	overlaps, err := repo.FindOverlapping(ctx, poolID, "2026-09-06", "10:30", "11:30")
	if err != nil {
		t.Fatalf("FindOverlapping failed: %v", err)
	}
	if len(overlaps) != 0 {
		t.Errorf("Expected no overlap on a different date, got %d", len(overlaps))
	}
}
