package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"poolpass/syncbridge/internal/models/dtos"
	"poolpass/syncbridge/internal/services"

	"github.com/go-chi/chi/v5"
)

func importErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrIntegrationNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrIntegrationInactive):
		return http.StatusConflict
	case errors.Is(err, services.ErrCredentialsMissing):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ImportPoolsHandler handles POST /api/v1/integrations/{integrationID}/import
func ImportPoolsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		integrationID := chi.URLParam(r, "integrationID")

		imported, err := deps.Services.Import.ImportPools(r.Context(), integrationID)
		if err != nil {
			respondWithError(w, importErrorStatus(err), err.Error())
			return
		}

		respondWithSuccess(w, http.StatusOK, &imported)
	}
}

// ListPoolMappingsHandler handles GET /api/v1/integrations/{integrationID}/mappings
func ListPoolMappingsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		integrationID := chi.URLParam(r, "integrationID")

		mappings, err := deps.Services.Import.GetPoolMappings(r.Context(), integrationID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		infos := make([]dtos.PoolMappingInfo, 0, len(mappings))
		for _, m := range mappings {
			infos = append(infos, dtos.PoolMappingInfo{
				ID:               m.ID,
				IntegrationID:    m.IntegrationID,
				ExternalPoolID:   m.ExternalPoolID,
				ExternalPoolName: m.ExternalPoolName,
				PoolpassPoolID:   m.PoolpassPoolID,
				CreatedAt:        m.CreatedAt,
			})
		}
		respondWithSuccess(w, http.StatusOK, &infos)
	}
}

// MaterializePoolHandler handles POST /api/v1/mappings/{mappingID}/pool
//
// Turns a previously imported snapshot into a draft marketplace listing.
// The pool is built from the stored import snapshot, not the request
// body, so the listing always reflects what the provider actually sent.
func MaterializePoolHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		host := hostID(r)
		if host == "" {
			respondWithError(w, http.StatusBadRequest, "Missing X-Host-Id header")
			return
		}

		mappingID := chi.URLParam(r, "mappingID")

		mapping, err := deps.Repo.PoolMapping.GetByID(r.Context(), mappingID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if mapping == nil {
			respondWithError(w, http.StatusNotFound, "Mapping not found")
			return
		}
		if len(mapping.ConfigData) == 0 {
			respondWithError(w, http.StatusConflict, "Mapping has no import snapshot; run an import first")
			return
		}

		var details dtos.PoolDetails
		if err := json.Unmarshal(mapping.ConfigData, &details); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Stored import snapshot is unreadable")
			return
		}

		pool, err := deps.Services.Import.CreatePoolFromImport(r.Context(), host, details, mappingID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		created := struct {
			PoolID    string `json:"pool_id"`
			MappingID string `json:"mapping_id"`
			Title     string `json:"title"`
		}{PoolID: pool.ID, MappingID: mappingID, Title: pool.Title}
		respondWithSuccess(w, http.StatusCreated, &created)
	}
}

// AvailabilityHandler handles GET /api/v1/integrations/{integrationID}/availability
func AvailabilityHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		integrationID := chi.URLParam(r, "integrationID")

		slots, err := deps.Services.Import.SyncAvailability(r.Context(), integrationID)
		if err != nil {
			respondWithError(w, importErrorStatus(err), err.Error())
			return
		}

		respondWithSuccess(w, http.StatusOK, &slots)
	}
}
