package providers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"poolpass/syncbridge/internal/constants"
	"poolpass/syncbridge/internal/models/dtos"
)

// ResortKeyAdapter implements ProviderAdapter for the ResortKey resort
// management system. ResortKey models everything as bookable resources and
// authenticates with an X-Api-Key header.
type ResortKeyAdapter struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// Ensure ResortKeyAdapter implements ProviderAdapter
var _ ProviderAdapter = (*ResortKeyAdapter)(nil)

// NewResortKeyAdapter creates a new ResortKey adapter
func NewResortKeyAdapter(baseURL, apiKey string) *ResortKeyAdapter {
	return &ResortKeyAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// ProviderType returns the provider tag identifier
func (a *ResortKeyAdapter) ProviderType() string {
	return constants.ProviderResortKey
}

func (a *ResortKeyAdapter) auth() authHeader {
	return apiKeyAuth("X-Api-Key", a.apiKey)
}

type resortKeyResource struct {
	ResourceID string   `json:"resource_id"`
	Label      string   `json:"label"`
	Summary    string   `json:"summary"`
	Address    string   `json:"address"`
	DailyRate  float64  `json:"daily_rate"`
	Capacity   int      `json:"capacity"`
	Features   []string `json:"features"`
	ImageURLs  []string `json:"image_urls"`
}

type resortKeyResourcesResponse struct {
	Resources []resortKeyResource `json:"resources"`
}

type resortKeySlot struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Booked    bool   `json:"booked"`
}

type resortKeyScheduleResponse struct {
	Slots []resortKeySlot `json:"slots"`
}

type resortKeyBookingsResponse struct {
	Bookings []struct {
		BookingID  string `json:"booking_id"`
		ResourceID string `json:"resource_id"`
		Date       string `json:"date"`
	} `json:"bookings"`
}

// TestConnection pings the authenticated status endpoint.
func (a *ResortKeyAdapter) TestConnection(ctx context.Context) (bool, error) {
	status, err := doAuthenticatedRequest(ctx, a.client, "GET",
		a.baseURL+"/v2/status", a.auth(), nil)
	if err != nil {
		if isAuthStatus(status) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetPoolDetails fetches the resource list and picks the pool-like one.
func (a *ResortKeyAdapter) GetPoolDetails(ctx context.Context) (*dtos.PoolDetails, error) {
	var resp resortKeyResourcesResponse
	if _, err := doAuthenticatedRequest(ctx, a.client, "GET",
		a.baseURL+"/v2/resources", a.auth(), &resp); err != nil {
		return nil, err
	}

	for _, res := range resp.Resources {
		if !looksLikePool(res.Label, res.Summary) {
			continue
		}
		return &dtos.PoolDetails{
			ExternalID:  res.ResourceID,
			Title:       res.Label,
			Description: res.Summary,
			Location:    res.Address,
			Amenities:   res.Features,
			PricePerDay: res.DailyRate,
			MaxGuests:   res.Capacity,
			Images:      res.ImageURLs,
		}, nil
	}

	return nil, &ProviderError{
		Code:    constants.ErrCodePoolNotFound,
		Message: constants.GetErrorMessage(constants.ErrCodePoolNotFound),
	}
}

// GetAvailability fetches the 30-day schedule. ResortKey already reports
// per-slot occupancy, so normalization only fills missing slot bounds.
func (a *ResortKeyAdapter) GetAvailability(ctx context.Context) ([]dtos.AvailabilitySlot, error) {
	start, end := availabilityWindow(time.Now())

	url := fmt.Sprintf("%s/v2/schedule?from=%s&to=%s", a.baseURL, start, end)
	var resp resortKeyScheduleResponse
	if _, err := doAuthenticatedRequest(ctx, a.client, "GET", url, a.auth(), &resp); err != nil {
		return nil, err
	}

	slots := make([]dtos.AvailabilitySlot, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slot := dtos.AvailabilitySlot{
			Date:      s.Date,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			IsBooked:  s.Booked,
		}
		if slot.StartTime == "" {
			slot.StartTime = defaultDayStart
		}
		if slot.EndTime == "" {
			slot.EndTime = defaultDayEnd
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// SyncBookings fetches the booking window and logs the count.
func (a *ResortKeyAdapter) SyncBookings(ctx context.Context) error {
	start, end := availabilityWindow(time.Now())

	url := fmt.Sprintf("%s/v2/bookings?from=%s&to=%s", a.baseURL, start, end)
	var resp resortKeyBookingsResponse
	if _, err := doAuthenticatedRequest(ctx, a.client, "GET", url, a.auth(), &resp); err != nil {
		return err
	}

	log.Printf("[ResortKeyAdapter] Fetched %d bookings in the %s..%s window",
		len(resp.Bookings), start, end)
	return nil
}
