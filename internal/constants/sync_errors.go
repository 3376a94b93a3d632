package constants

// Sync Error Codes
// These constants define specific error scenarios for CRM synchronization

// Provider/transport errors
const (
	ErrCodeConnectionFailed    = "CONNECTION_FAILED"
	ErrCodeRequestFailed       = "REQUEST_FAILED"
	ErrCodeNetworkError        = "NETWORK_ERROR"
	ErrCodeRateLimited         = "RATE_LIMITED"
	ErrCodeUnsupportedProvider = "UNSUPPORTED_PROVIDER"
)

// Resource errors
const (
	ErrCodePoolNotFound    = "POOL_NOT_FOUND"
	ErrCodeMappingNotFound = "MAPPING_NOT_FOUND"
)

// Integration errors
const (
	ErrCodeIntegrationNotFound = "INTEGRATION_NOT_FOUND"
	ErrCodeIntegrationInactive = "INTEGRATION_INACTIVE"
	ErrCodeCredentialsMissing  = "CREDENTIALS_MISSING"
	ErrCodeCredentialDecrypt   = "CREDENTIAL_DECRYPT_FAILED"
)

// Scheduling errors
const (
	ErrCodeScheduleNotFound = "SCHEDULE_NOT_FOUND"
	ErrCodeInvalidFrequency = "INVALID_FREQUENCY"
	ErrCodeInvalidSyncType  = "INVALID_SYNC_TYPE"
)

// SyncErrorMessages maps error codes to human-readable messages.
var SyncErrorMessages = map[string]string{
	ErrCodeConnectionFailed:    "Unable to authenticate with the external system",
	ErrCodeRequestFailed:       "The external system returned an unexpected response",
	ErrCodeNetworkError:        "Unable to reach the external system",
	ErrCodeRateLimited:         "Rate limit exceeded. Please try again later",
	ErrCodeUnsupportedProvider: "This provider is not supported",

	ErrCodePoolNotFound:    "No pool-like resource was found in the external system",
	ErrCodeMappingNotFound: "No pool mapping exists for this external resource",

	ErrCodeIntegrationNotFound: "No integration found with this ID",
	ErrCodeIntegrationInactive: "This integration is deactivated",
	ErrCodeCredentialsMissing:  "The integration has no stored credentials",
	ErrCodeCredentialDecrypt:   "Stored credentials could not be decrypted",

	ErrCodeScheduleNotFound: "No sync schedule found for this integration and type",
	ErrCodeInvalidFrequency: "Sync frequency must be hourly, daily or weekly",
	ErrCodeInvalidSyncType:  "Sync type must be availability, pools or bookings",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := SyncErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
