package providers

import (
	"strings"
	"time"

	"poolpass/syncbridge/internal/constants"
)

// Default slot bounds when a provider only reports whole-day occupancy.
const (
	defaultDayStart = "09:00"
	defaultDayEnd   = "18:00"
)

// availabilityWindow returns the fixed forward window as inclusive
// "2006-01-02" bounds.
func availabilityWindow(now time.Time) (string, string) {
	start := now.Format("2006-01-02")
	end := now.AddDate(0, 0, constants.AvailabilityWindowDays).Format("2006-01-02")
	return start, end
}

// looksLikePool is the heuristic for picking the pool resource out of a
// provider's room/resource inventory.
func looksLikePool(name, description string) bool {
	return strings.Contains(strings.ToLower(name), "pool") ||
		strings.Contains(strings.ToLower(description), "pool")
}
