package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sca-hospital/activos-backend/api/responses"
	auditsvc "github.com/sca-hospital/activos-backend/internal/audit"
	"github.com/sca-hospital/activos-backend/pkg/db/models"
	"github.com/sca-hospital/activos-backend/pkg/logger"
)

type auditEntryResponse struct {
	ID        int64           `json:"id"`
	Actor     string          `json:"actor,omitempty"`
	ActorID   *int64          `json:"actor_id,omitempty"`
	Action    string          `json:"action"`
	Detail    json.RawMessage `json:"detail,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func newAuditEntryResponse(entry *models.AuditEntry) auditEntryResponse {
	resp := auditEntryResponse{
		ID:        entry.ID,
		ActorID:   entry.ActorUserID,
		Action:    string(entry.Action),
		Detail:    entry.Detail,
		CreatedAt: entry.CreatedAt,
	}
	if entry.Actor != nil {
		resp.Actor = entry.Actor.Username
	}
	return resp
}

// AuditList returns the audit trail, newest first. The trail is read-only:
// no write endpoint exists at any layer.
func AuditList(svc auditsvc.Recorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]auditEntryResponse, 0, len(entries))
		for i := range entries {
			items = append(items, newAuditEntryResponse(&entries[i]))
		}
		responses.WriteSuccess(w, map[string]any{"entries": items})
	}
}
