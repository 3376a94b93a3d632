package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"poolpass/syncbridge/internal/constants"
)

func TestStayFlowAdapter_TestConnection_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/account" {
			t.Errorf("Expected path /api/v1/account, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Expected bearer auth header, got %q", got)
		}
		json.NewEncoder(w).Encode(stayFlowAccountResponse{ID: "acct-1", Name: "Test Hotel"})
	}))
	defer server.Close()

	adapter := NewStayFlowAdapter(server.URL, "test-token")

	ok, err := adapter.TestConnection(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !ok {
		t.Error("Expected connection test to pass")
	}
}

func TestStayFlowAdapter_TestConnection_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	adapter := NewStayFlowAdapter(server.URL, "bad-token")

	ok, err := adapter.TestConnection(context.Background())
	if err != nil {
		t.Fatalf("Auth failure must not be an error, got %v", err)
	}
	if ok {
		t.Error("Expected connection test to fail")
	}
}

func TestStayFlowAdapter_TestConnection_ServerFault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := NewStayFlowAdapter(server.URL, "test-token")

	_, err := adapter.TestConnection(context.Background())
	if err == nil {
		t.Fatal("Expected error for server fault")
	}

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %T", err)
	}
	if provErr.Code != constants.ErrCodeRequestFailed {
		t.Errorf("Expected code %s, got %s", constants.ErrCodeRequestFailed, provErr.Code)
	}
}

func TestStayFlowAdapter_TestConnection_Idempotent(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != "GET" {
			t.Errorf("Connection test must be read-only, got %s", r.Method)
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	adapter := NewStayFlowAdapter(server.URL, "revoked")

	first, err1 := adapter.TestConnection(context.Background())
	second, err2 := adapter.TestConnection(context.Background())
	if err1 != nil || err2 != nil {
		t.Fatalf("Expected no errors, got %v / %v", err1, err2)
	}
	if first != second {
		t.Error("Two calls with unchanged credentials must agree")
	}
	if calls != 2 {
		t.Errorf("Expected 2 calls, got %d", calls)
	}
}

func TestStayFlowAdapter_GetPoolDetails_FiltersPoolResource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := stayFlowRoomTypesResponse{
			RoomTypes: []stayFlowRoomType{
				{ID: "rt-1", Name: "Standard Double", Description: "A cozy room", BaseRate: 120},
				{ID: "rt-2", Name: "Rooftop Pool Cabana", Description: "Cabana by the infinity pool",
					BaseRate: 320, MaxOccupancy: 8, Amenities: []string{"towels", "bar"}},
			},
		}
		resp.Property.Name = "Hotel Sol"
		resp.Property.City = "Lisbon"
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	adapter := NewStayFlowAdapter(server.URL, "test-token")

	details, err := adapter.GetPoolDetails(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if details.ExternalID != "rt-2" {
		t.Errorf("Expected external id rt-2, got %s", details.ExternalID)
	}
	if details.PricePerDay != 320 {
		t.Errorf("Expected price 320, got %f", details.PricePerDay)
	}
	if details.MaxGuests != 8 {
		t.Errorf("Expected max guests 8, got %d", details.MaxGuests)
	}
	if details.Location != "Hotel Sol Lisbon" {
		t.Errorf("Unexpected location %q", details.Location)
	}
}

func TestStayFlowAdapter_GetPoolDetails_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(stayFlowRoomTypesResponse{
			RoomTypes: []stayFlowRoomType{
				{ID: "rt-1", Name: "Standard Double", Description: "A cozy room"},
			},
		})
	}))
	defer server.Close()

	adapter := NewStayFlowAdapter(server.URL, "test-token")

	_, err := adapter.GetPoolDetails(context.Background())
	if err == nil {
		t.Fatal("Expected error when no pool-like resource exists")
	}

	var provErr *ProviderError
	if !errors.As(err, &provErr) || provErr.Code != constants.ErrCodePoolNotFound {
		t.Errorf("Expected POOL_NOT_FOUND, got %v", err)
	}
}

func TestStayFlowAdapter_GetAvailability_NormalizesOccupancy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start") == "" || r.URL.Query().Get("end") == "" {
			t.Error("Expected start and end query params")
		}
		json.NewEncoder(w).Encode(stayFlowCalendarResponse{
			Days: []stayFlowCalendarDay{
				{Date: "2024-01-01", UnitsAvailable: 0, UnitsTotal: 2},
				{Date: "2024-01-02", UnitsAvailable: 1, UnitsTotal: 2},
			},
		})
	}))
	defer server.Close()

	adapter := NewStayFlowAdapter(server.URL, "test-token")

	slots, err := adapter.GetAvailability(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("Expected 2 slots, got %d", len(slots))
	}
	if !slots[0].IsBooked {
		t.Error("Day with zero units must be booked")
	}
	if slots[1].IsBooked {
		t.Error("Day with free units must not be booked")
	}
	if slots[0].StartTime != defaultDayStart || slots[0].EndTime != defaultDayEnd {
		t.Errorf("Expected default slot bounds, got %s-%s", slots[0].StartTime, slots[0].EndTime)
	}
}
