package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"poolpass/syncbridge/internal/logging"
	"poolpass/syncbridge/internal/models/dtos"
	gormModels "poolpass/syncbridge/internal/models/gorm"
	"poolpass/syncbridge/internal/services"

	"github.com/go-chi/chi/v5"
)

// webhookTokenTTL bounds how long a generated callback URL stays valid.
const webhookTokenTTL = 90 * 24 * time.Hour

func toIntegrationInfo(in *gormModels.Integration) dtos.IntegrationInfo {
	return dtos.IntegrationInfo{
		ID:         in.ID,
		Provider:   in.Provider,
		Label:      in.Label,
		BaseURL:    in.BaseURL,
		IsActive:   in.IsActive,
		LastSyncAt: in.LastSyncAt,
		CreatedAt:  in.CreatedAt,
	}
}

// hostID pulls the authenticated host identity injected by the edge
// gateway.
func hostID(r *http.Request) string {
	return r.Header.Get("X-Host-Id")
}

// CreateIntegrationHandler handles POST /api/v1/integrations
func CreateIntegrationHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		host := hostID(r)
		if host == "" {
			respondWithError(w, http.StatusBadRequest, "Missing X-Host-Id header")
			return
		}

		var req dtos.CreateIntegrationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Provider == "" || req.BaseURL == "" || len(req.Credentials) == 0 {
			respondWithError(w, http.StatusBadRequest, "provider, base_url and credentials are required")
			return
		}

		integration, err := deps.Services.Integration.CreateIntegration(r.Context(), services.CreateIntegrationInput{
			HostID:      host,
			Provider:    req.Provider,
			Label:       req.Label,
			BaseURL:     req.BaseURL,
			Credentials: req.Credentials,
		})
		if err != nil {
			if errors.Is(err, services.ErrConnectionFailed) {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			logging.Error("Integration creation failed", "host_id", host, "provider", req.Provider, "error", err)
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		info := toIntegrationInfo(integration)
		respondWithSuccess(w, http.StatusCreated, &info)
	}
}

// ListIntegrationsHandler handles GET /api/v1/integrations
func ListIntegrationsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		host := hostID(r)
		if host == "" {
			respondWithError(w, http.StatusBadRequest, "Missing X-Host-Id header")
			return
		}

		integrations, err := deps.Services.Integration.ListByHost(r.Context(), host)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		infos := make([]dtos.IntegrationInfo, 0, len(integrations))
		for i := range integrations {
			infos = append(infos, toIntegrationInfo(&integrations[i]))
		}
		respondWithSuccess(w, http.StatusOK, &infos)
	}
}

// ListProvidersHandler handles GET /api/v1/providers
func ListProvidersHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providers := deps.Services.Integration.ListProviders()
		respondWithSuccess(w, http.StatusOK, &providers)
	}
}

// ToggleIntegrationHandler handles PATCH /api/v1/integrations/{integrationID}/status
func ToggleIntegrationHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		integrationID := chi.URLParam(r, "integrationID")

		var req dtos.ToggleIntegrationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := deps.Services.Integration.ToggleIntegration(r.Context(), integrationID, req.Active); err != nil {
			if errors.Is(err, services.ErrIntegrationNotFound) {
				respondWithError(w, http.StatusNotFound, err.Error())
				return
			}
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		msg := "integration updated"
		respondWithSuccess(w, http.StatusOK, &msg)
	}
}

// DeleteIntegrationHandler handles DELETE /api/v1/integrations/{integrationID}
func DeleteIntegrationHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		integrationID := chi.URLParam(r, "integrationID")

		if err := deps.Services.Integration.DeleteIntegration(r.Context(), integrationID); err != nil {
			if errors.Is(err, services.ErrIntegrationNotFound) {
				respondWithError(w, http.StatusNotFound, err.Error())
				return
			}
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		msg := "integration disconnected"
		respondWithSuccess(w, http.StatusOK, &msg)
	}
}

// TestIntegrationHandler handles POST /api/v1/integrations/{integrationID}/test
func TestIntegrationHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		integrationID := chi.URLParam(r, "integrationID")

		connected, err := deps.Services.Integration.TestIntegration(r.Context(), integrationID)
		if err != nil {
			if errors.Is(err, services.ErrIntegrationNotFound) {
				respondWithError(w, http.StatusNotFound, err.Error())
				return
			}
			respondWithError(w, http.StatusBadGateway, err.Error())
			return
		}

		result := dtos.ConnectionTestResult{Connected: connected}
		respondWithSuccess(w, http.StatusOK, &result)
	}
}

// WebhookURLHandler handles GET /api/v1/integrations/{integrationID}/webhook-url
//
// Returns a signed callback URL the host pastes into the external
// system's webhook settings.
func WebhookURLHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Services.URLSigner == nil {
			respondWithError(w, http.StatusServiceUnavailable, "Webhook URL signing is not configured")
			return
		}

		integrationID := chi.URLParam(r, "integrationID")

		integration, err := deps.Repo.Integration.GetByID(r.Context(), integrationID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if integration == nil {
			respondWithError(w, http.StatusNotFound, "Integration not found")
			return
		}

		token, err := deps.Services.URLSigner.GenerateToken(integrationID, webhookTokenTTL)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		base := os.Getenv("PUBLIC_BASE_URL")
		if base == "" {
			base = "http://localhost:8080"
		}

		info := dtos.WebhookURLInfo{
			URL:       fmt.Sprintf("%s/webhooks/%s?token=%s", base, integrationID, token),
			ExpiresAt: time.Now().UTC().Add(webhookTokenTTL),
		}
		respondWithSuccess(w, http.StatusOK, &info)
	}
}
