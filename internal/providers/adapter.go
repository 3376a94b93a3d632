package providers

import (
	"context"
	"fmt"

	"poolpass/syncbridge/internal/models/dtos"
)

// ProviderAdapter translates one external property-management system's API
// into the normalized sync operations the rest of the service consumes.
type ProviderAdapter interface {
	// TestConnection performs a lightweight authenticated call. Auth
	// failures return (false, nil); only transport faults return an error.
	TestConnection(ctx context.Context) (bool, error)

	// GetPoolDetails finds the pool-like resource in the provider's
	// inventory and returns it normalized. Returns a ProviderError with
	// ErrCodePoolNotFound when the provider has no such resource.
	GetPoolDetails(ctx context.Context) (*dtos.PoolDetails, error)

	// GetAvailability fetches the fixed forward window and normalizes
	// provider slot data into boolean per-day occupancy.
	GetAvailability(ctx context.Context) ([]dtos.AvailabilitySlot, error)

	// SyncBookings fetches provider reservations in the same window. The
	// side effect is logging and counting; reconciliation against internal
	// state belongs to the webhook/conflict handler.
	SyncBookings(ctx context.Context) error

	// ProviderType returns the provider tag identifier
	ProviderType() string
}

// ProviderError carries a machine-readable code alongside the human
// message for provider and transport failures.
type ProviderError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
