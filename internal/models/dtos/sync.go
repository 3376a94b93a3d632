package dtos

// PoolDetails is the normalized pool/room resource returned by a provider
// adapter after provider-specific endpoint plumbing has been stripped away.
type PoolDetails struct {
	ExternalID  string   `json:"external_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Amenities   []string `json:"amenities"`
	PricePerDay float64  `json:"price_per_day"`
	MaxGuests   int      `json:"max_guests"`
	Images      []string `json:"images"`
}

// AvailabilitySlot is one day of normalized occupancy inside the fixed
// forward window.
type AvailabilitySlot struct {
	Date      string `json:"date"` // "2006-01-02"
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsBooked  bool   `json:"is_booked"`
}

// ImportedPool is one candidate pool record pulled from the external
// system during an import, paired with the mapping row it produced.
type ImportedPool struct {
	MappingID string      `json:"mapping_id"`
	Details   PoolDetails `json:"details"`
}

// CredentialBundle is the decrypted credential set handed to the adapter
// factory. It never leaves process memory.
type CredentialBundle struct {
	Provider     string
	BaseURL      string
	APIKey       string
	OAuthToken   string
	RefreshToken string
}

// ProviderInfo describes one supported provider in the static registry.
type ProviderInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	AuthType string `json:"auth_type"`
}
