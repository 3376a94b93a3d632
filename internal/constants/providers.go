package constants

// Provider tags for supported external property-management systems
const (
	ProviderStayFlow  = "stayflow"
	ProviderResortKey = "resortkey"
)

// Auth types used by provider adapters
const (
	AuthTypeBearer = "bearer_token"
	AuthTypeAPIKey = "api_key"
)

// Credential kinds stored per integration
const (
	CredentialKindAPIKey       = "api_key"
	CredentialKindOAuthToken   = "oauth_token"
	CredentialKindRefreshToken = "refresh_token"
)

// Sync types
const (
	SyncTypeAvailability = "availability"
	SyncTypePools        = "pools"
	SyncTypeBookings     = "bookings"
)

// Sync frequencies
const (
	FrequencyHourly = "hourly"
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
)

// Sync log statuses
const (
	SyncStatusPending    = "pending"
	SyncStatusInProgress = "in_progress"
	SyncStatusSuccess    = "success"
	SyncStatusError      = "error"
)

// Conflict types and statuses
const (
	ConflictTypeBookingOverlap       = "booking_overlap"
	ConflictTypeAvailabilityMismatch = "availability_mismatch"
	ConflictTypePriceDifference      = "price_difference"

	ConflictStatusPending  = "pending"
	ConflictStatusResolved = "resolved"
	ConflictStatusIgnored  = "ignored"
)

// Webhook event types
const (
	EventBookingCreated      = "booking_created"
	EventBookingUpdated      = "booking_updated"
	EventBookingCancelled    = "booking_cancelled"
	EventAvailabilityChanged = "availability_changed"
	EventPoolUpdated         = "pool_updated"
)

// Notification types
const (
	NotificationSyncConflict = "sync_conflict"
	NotificationSyncEvent    = "sync_event"
)

// MaxScheduleErrors is the consecutive-failure ceiling after which a
// schedule is skipped by the sweep and its timer is removed.
const MaxScheduleErrors = 5

// AvailabilityWindowDays is the fixed forward window adapters fetch.
const AvailabilityWindowDays = 30
