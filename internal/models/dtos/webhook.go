package dtos

// WebhookRequest is the decoded inbound webhook body. Providers disagree
// on field names, so the aliases are folded into the canonical fields
// during decoding.
type WebhookRequest struct {
	EventType     string `json:"event_type"`
	Type          string `json:"type"` // alias used by some providers
	IntegrationID string `json:"integration_id"`
	PoolID        string `json:"pool_id"`
	RoomID        string `json:"room_id"`     // alias
	ResourceID    string `json:"resource_id"` // alias
	Date          string `json:"date"`
	BookingDate   string `json:"booking_date"` // alias
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	GuestName     string `json:"guest_name"`
}

// ResolvedEventType returns the canonical event type.
func (w *WebhookRequest) ResolvedEventType() string {
	if w.EventType != "" {
		return w.EventType
	}
	return w.Type
}

// ResolvedPoolID returns the external pool identifier, whichever field
// the provider used.
func (w *WebhookRequest) ResolvedPoolID() string {
	switch {
	case w.PoolID != "":
		return w.PoolID
	case w.RoomID != "":
		return w.RoomID
	default:
		return w.ResourceID
	}
}

// ResolvedDate returns the event date.
func (w *WebhookRequest) ResolvedDate() string {
	if w.Date != "" {
		return w.Date
	}
	return w.BookingDate
}

// WebhookResult is the outcome of processing one inbound event. Internal
// marks faults on our side (storage, scheduling) as opposed to events we
// understood but rejected; only the former should surface as a 5xx.
type WebhookResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Internal bool   `json:"-"`
}

// WebhookResponse is the HTTP response body for the webhook endpoint.
type WebhookResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	IntegrationID string `json:"integration_id,omitempty"`
	EventType     string `json:"event_type,omitempty"`
	Error         string `json:"error,omitempty"`
}
