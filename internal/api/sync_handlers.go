package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"poolpass/syncbridge/internal/models/dtos"
	"poolpass/syncbridge/internal/services"

	"github.com/go-chi/chi/v5"
)

const defaultLogPageSize = 50

// TriggerSyncHandler handles POST /api/v1/integrations/{integrationID}/sync
func TriggerSyncHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		integrationID := chi.URLParam(r, "integrationID")

		var req dtos.TriggerSyncRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		err := deps.Services.Sync.Execute(r.Context(), integrationID, req.SyncType)
		if err != nil {
			var invalidType *services.InvalidSyncTypeError
			switch {
			case errors.As(err, &invalidType):
				respondWithError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, services.ErrIntegrationNotFound):
				respondWithError(w, http.StatusNotFound, err.Error())
			case errors.Is(err, services.ErrIntegrationInactive):
				respondWithError(w, http.StatusConflict, err.Error())
			case errors.Is(err, services.ErrConnectionFailed):
				respondWithError(w, http.StatusBadGateway, err.Error())
			default:
				respondWithError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}

		msg := "sync completed"
		respondWithSuccess(w, http.StatusOK, &msg)
	}
}

// CreateScheduleHandler handles POST /api/v1/integrations/{integrationID}/schedules
func CreateScheduleHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		integrationID := chi.URLParam(r, "integrationID")

		var req dtos.CreateScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := deps.Services.Scheduler.ScheduleSync(r.Context(), integrationID, req.SyncType, req.Frequency); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		msg := "schedule registered"
		respondWithSuccess(w, http.StatusCreated, &msg)
	}
}

// DeleteScheduleHandler handles DELETE /api/v1/integrations/{integrationID}/schedules/{syncType}
func DeleteScheduleHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		integrationID := chi.URLParam(r, "integrationID")
		syncType := chi.URLParam(r, "syncType")

		if err := deps.Services.Scheduler.UnscheduleSync(r.Context(), integrationID, syncType); err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		msg := "schedule disabled"
		respondWithSuccess(w, http.StatusOK, &msg)
	}
}

// ListSyncLogsHandler handles GET /api/v1/integrations/{integrationID}/logs
func ListSyncLogsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		integrationID := chi.URLParam(r, "integrationID")

		limit := defaultLogPageSize
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 500 {
				respondWithError(w, http.StatusBadRequest, "limit must be between 1 and 500")
				return
			}
			limit = parsed
		}

		logs, err := deps.Repo.SyncLog.ListByIntegration(r.Context(), integrationID, limit)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		infos := make([]dtos.SyncLogInfo, 0, len(logs))
		for _, l := range logs {
			infos = append(infos, dtos.SyncLogInfo{
				ID:          l.ID,
				SyncType:    l.SyncType,
				Status:      l.Status,
				Message:     l.Message,
				StartedAt:   l.StartedAt,
				CompletedAt: l.CompletedAt,
			})
		}
		respondWithSuccess(w, http.StatusOK, &infos)
	}
}
