package api

import (
	"encoding/json"
	"io"
	"net/http"

	"poolpass/syncbridge/internal/logging"
	"poolpass/syncbridge/internal/models/dtos"

	"github.com/go-chi/chi/v5"
)

// maxWebhookBody caps inbound webhook payloads at 1 MiB.
const maxWebhookBody = 1 << 20

func respondWebhook(w http.ResponseWriter, statusCode int, resp *dtos.WebhookResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

// WebhookHandler handles POST /webhooks/{integrationID}
//
// External systems call this endpoint directly, so the response shape is
// the flat WebhookResponse rather than the internal API envelope.
// Handler-level failures (no mapping, duplicate delivery, unknown event
// type) still return 200 with success=false so providers do not retry
// forever; faults on our side return 500, and transport-level problems
// get 4xx statuses.
func WebhookHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawPayload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			respondWebhook(w, http.StatusBadRequest, &dtos.WebhookResponse{
				Success: false, Error: "unreadable request body",
			})
			return
		}

		var req dtos.WebhookRequest
		if len(rawPayload) > 0 {
			if err := json.Unmarshal(rawPayload, &req); err != nil {
				respondWebhook(w, http.StatusBadRequest, &dtos.WebhookResponse{
					Success: false, Error: "invalid JSON payload",
				})
				return
			}
		}

		// Path takes precedence; the body field exists for providers that
		// cannot template path segments into their callback URLs.
		integrationID := chi.URLParam(r, "integrationID")
		if integrationID == "" {
			integrationID = req.IntegrationID
		}
		if integrationID == "" {
			respondWebhook(w, http.StatusBadRequest, &dtos.WebhookResponse{
				Success: false, Error: "missing integration id",
			})
			return
		}

		if deps.Services.URLSigner != nil {
			token := r.URL.Query().Get("token")
			claimed, err := deps.Services.URLSigner.ValidateToken(token)
			if err != nil || claimed != integrationID {
				respondWebhook(w, http.StatusUnauthorized, &dtos.WebhookResponse{
					Success: false, Error: "invalid webhook token",
				})
				return
			}
		}

		integration, err := deps.Repo.Integration.GetByID(r.Context(), integrationID)
		if err != nil {
			logging.Error("Webhook integration lookup failed", "integration_id", integrationID, "error", err)
			respondWebhook(w, http.StatusInternalServerError, &dtos.WebhookResponse{
				Success: false, Error: "internal error",
			})
			return
		}
		if integration == nil || !integration.IsActive {
			respondWebhook(w, http.StatusNotFound, &dtos.WebhookResponse{
				Success: false, Error: "integration not found",
			})
			return
		}

		result := deps.Services.Webhook.ProcessWebhook(r.Context(), integration, &req, rawPayload)

		status := http.StatusOK
		if result.Internal {
			status = http.StatusInternalServerError
		}
		respondWebhook(w, status, &dtos.WebhookResponse{
			Success:       result.Success,
			Message:       result.Message,
			IntegrationID: integration.ID,
			EventType:     req.ResolvedEventType(),
		})
	}
}
