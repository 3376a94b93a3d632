package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"poolpass/syncbridge/internal/models/dtos"
	gormModels "poolpass/syncbridge/internal/models/gorm"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

func toConflictInfo(c *gormModels.SyncConflict) dtos.ConflictInfo {
	return dtos.ConflictInfo{
		ID:           c.ID,
		PoolID:       c.PoolID,
		ConflictType: c.ConflictType,
		Status:       c.Status,
		ConflictData: string(c.ConflictData),
		CreatedAt:    c.CreatedAt,
		ResolvedAt:   c.ResolvedAt,
	}
}

// ListConflictsHandler handles GET /api/v1/conflicts
//
// Optional ?pool_id= narrows the listing to one pool's history; without
// it, all pending conflicts are returned.
func ListConflictsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			conflicts []gormModels.SyncConflict
			err       error
		)

		if poolID := r.URL.Query().Get("pool_id"); poolID != "" {
			conflicts, err = deps.Repo.SyncConflict.ListByPool(r.Context(), poolID)
		} else {
			conflicts, err = deps.Services.Webhook.ListPendingConflicts(r.Context())
		}
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		infos := make([]dtos.ConflictInfo, 0, len(conflicts))
		for i := range conflicts {
			infos = append(infos, toConflictInfo(&conflicts[i]))
		}
		respondWithSuccess(w, http.StatusOK, &infos)
	}
}

// ResolveConflictHandler handles POST /api/v1/conflicts/{conflictID}/resolve
func ResolveConflictHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conflictID := chi.URLParam(r, "conflictID")

		var req dtos.ResolveConflictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := deps.Services.Webhook.ResolveConflict(r.Context(), conflictID, req.Status); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondWithError(w, http.StatusNotFound, "Conflict not found or already resolved")
				return
			}
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		msg := "conflict " + req.Status
		respondWithSuccess(w, http.StatusOK, &msg)
	}
}

// ListNotificationsHandler handles GET /api/v1/notifications
func ListNotificationsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		host := hostID(r)
		if host == "" {
			respondWithError(w, http.StatusBadRequest, "Missing X-Host-Id header")
			return
		}

		limit := defaultLogPageSize
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 500 {
				respondWithError(w, http.StatusBadRequest, "limit must be between 1 and 500")
				return
			}
			limit = parsed
		}

		notifications, err := deps.Repo.Notification.ListByHost(r.Context(), host, limit)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		infos := make([]dtos.NotificationInfo, 0, len(notifications))
		for _, n := range notifications {
			infos = append(infos, dtos.NotificationInfo{
				ID:        n.ID,
				Kind:      n.Kind,
				Title:     n.Title,
				Body:      n.Body,
				IsUrgent:  n.IsUrgent,
				IsRead:    n.IsRead,
				CreatedAt: n.CreatedAt,
			})
		}
		respondWithSuccess(w, http.StatusOK, &infos)
	}
}
