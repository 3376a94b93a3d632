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

// StayFlowAdapter implements ProviderAdapter for the StayFlow hotel PMS.
// StayFlow exposes room types, a per-day availability calendar and a
// reservation list, authenticated with a bearer token.
type StayFlowAdapter struct {
	baseURL string
	token   string
	client  *http.Client
}

// Ensure StayFlowAdapter implements ProviderAdapter
var _ ProviderAdapter = (*StayFlowAdapter)(nil)

// NewStayFlowAdapter creates a new StayFlow adapter
func NewStayFlowAdapter(baseURL, token string) *StayFlowAdapter {
	return &StayFlowAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// ProviderType returns the provider tag identifier
func (a *StayFlowAdapter) ProviderType() string {
	return constants.ProviderStayFlow
}

type stayFlowAccountResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type stayFlowRoomType struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	BaseRate     float64  `json:"base_rate"`
	MaxOccupancy int      `json:"max_occupancy"`
	Amenities    []string `json:"amenities"`
	Photos       []string `json:"photos"`
}

type stayFlowRoomTypesResponse struct {
	RoomTypes []stayFlowRoomType `json:"room_types"`
	Property  struct {
		Name string `json:"name"`
		City string `json:"city"`
	} `json:"property"`
}

type stayFlowCalendarDay struct {
	Date           string `json:"date"`
	UnitsAvailable int    `json:"units_available"`
	UnitsTotal     int    `json:"units_total"`
}

type stayFlowCalendarResponse struct {
	Days []stayFlowCalendarDay `json:"days"`
}

type stayFlowReservationsResponse struct {
	Reservations []struct {
		ID          string `json:"id"`
		RoomTypeID  string `json:"room_type_id"`
		CheckIn     string `json:"check_in"`
		CheckOut    string `json:"check_out"`
	} `json:"reservations"`
}

// TestConnection performs a lightweight authenticated account lookup.
func (a *StayFlowAdapter) TestConnection(ctx context.Context) (bool, error) {
	var account stayFlowAccountResponse
	status, err := doAuthenticatedRequest(ctx, a.client, "GET",
		a.baseURL+"/api/v1/account", bearerAuth(a.token), &account)
	if err != nil {
		if isAuthStatus(status) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetPoolDetails fetches the room-type inventory and picks the pool-like
// resource.
func (a *StayFlowAdapter) GetPoolDetails(ctx context.Context) (*dtos.PoolDetails, error) {
	var resp stayFlowRoomTypesResponse
	if _, err := doAuthenticatedRequest(ctx, a.client, "GET",
		a.baseURL+"/api/v1/room-types", bearerAuth(a.token), &resp); err != nil {
		return nil, err
	}

	for _, rt := range resp.RoomTypes {
		if !looksLikePool(rt.Name, rt.Description) {
			continue
		}
		return &dtos.PoolDetails{
			ExternalID:  rt.ID,
			Title:       rt.Name,
			Description: rt.Description,
			Location:    strings.TrimSpace(resp.Property.Name + " " + resp.Property.City),
			Amenities:   rt.Amenities,
			PricePerDay: rt.BaseRate,
			MaxGuests:   rt.MaxOccupancy,
			Images:      rt.Photos,
		}, nil
	}

	return nil, &ProviderError{
		Code:    constants.ErrCodePoolNotFound,
		Message: constants.GetErrorMessage(constants.ErrCodePoolNotFound),
	}
}

// GetAvailability fetches the 30-day availability calendar and normalizes
// unit counts into boolean occupancy.
func (a *StayFlowAdapter) GetAvailability(ctx context.Context) ([]dtos.AvailabilitySlot, error) {
	start, end := availabilityWindow(time.Now())

	url := fmt.Sprintf("%s/api/v1/availability?start=%s&end=%s", a.baseURL, start, end)
	var resp stayFlowCalendarResponse
	if _, err := doAuthenticatedRequest(ctx, a.client, "GET", url, bearerAuth(a.token), &resp); err != nil {
		return nil, err
	}

	slots := make([]dtos.AvailabilitySlot, 0, len(resp.Days))
	for _, day := range resp.Days {
		slots = append(slots, dtos.AvailabilitySlot{
			Date:      day.Date,
			StartTime: defaultDayStart,
			EndTime:   defaultDayEnd,
			IsBooked:  day.UnitsAvailable == 0,
		})
	}
	return slots, nil
}

// SyncBookings fetches the reservation window and logs the count.
func (a *StayFlowAdapter) SyncBookings(ctx context.Context) error {
	start, end := availabilityWindow(time.Now())

	url := fmt.Sprintf("%s/api/v1/reservations?start=%s&end=%s", a.baseURL, start, end)
	var resp stayFlowReservationsResponse
	if _, err := doAuthenticatedRequest(ctx, a.client, "GET", url, bearerAuth(a.token), &resp); err != nil {
		return err
	}

	log.Printf("[StayFlowAdapter] Fetched %d reservations in the %s..%s window",
		len(resp.Reservations), start, end)
	return nil
}
