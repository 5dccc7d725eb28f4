package controllers

import (
	"net/http"
	"time"

	"github.com/sca-hospital/activos-backend/api/middleware"
	"github.com/sca-hospital/activos-backend/api/responses"
	"github.com/sca-hospital/activos-backend/api/validators"
	movementsvc "github.com/sca-hospital/activos-backend/internal/movements"
	"github.com/sca-hospital/activos-backend/pkg/db/models"
	"github.com/sca-hospital/activos-backend/pkg/enums"
	pkgerrors "github.com/sca-hospital/activos-backend/pkg/errors"
	"github.com/sca-hospital/activos-backend/pkg/logger"
)

type movementCreateRequest struct {
	AssetID               int64  `json:"asset_id" validate:"required,gt=0"`
	OriginLocationID      int64  `json:"origin_location_id" validate:"required,gt=0"`
	DestinationLocationID int64  `json:"destination_location_id" validate:"required,gt=0"`
	Kind                  string `json:"kind" validate:"required"`
	Notes                 string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type movementResponse struct {
	ID          int64            `json:"id"`
	AssetID     int64            `json:"asset_id"`
	AssetCode   string           `json:"asset_code,omitempty"`
	Kind        string           `json:"kind"`
	Origin      locationResponse `json:"origin"`
	Destination locationResponse `json:"destination"`
	MovedBy     string           `json:"moved_by,omitempty"`
	MovedAt     time.Time        `json:"moved_at"`
	Notes       string           `json:"notes,omitempty"`
}

func newMovementResponse(record *models.MovementRecord) movementResponse {
	return movementResponse{
		ID:        record.ID,
		AssetID:   record.AssetID,
		AssetCode: record.Asset.InventoryCode,
		Kind:      string(record.Kind),
		Origin: locationResponse{
			ID:         record.OriginLocationID,
			Name:       record.OriginLocation.Name,
			Department: record.OriginLocation.Department.Name,
		},
		Destination: locationResponse{
			ID:         record.DestinationLocationID,
			Name:       record.DestinationLocation.Name,
			Department: record.DestinationLocation.Department.Name,
		},
		MovedBy: record.Actor.Username,
		MovedAt: record.MovedAt,
		Notes:   record.Notes,
	}
}

func movementList(records []models.MovementRecord) []movementResponse {
	items := make([]movementResponse, 0, len(records))
	for i := range records {
		items = append(items, newMovementResponse(&records[i]))
	}
	return items
}

// MovementList returns the global movement ledger, newest first.
func MovementList(svc movementsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"movements": movementList(records)})
	}
}

// MovementListByAsset returns one asset's full movement history.
func MovementListByAsset(svc movementsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := assetIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.QueryByAsset(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"movements": movementList(records)})
	}
}

// MovementCreate records a corrective ledger entry directly. The relocation
// endpoint is the normal path; this one exists for administrators fixing the
// record after the fact and does not touch the asset's current location.
func MovementCreate(svc movementsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload movementCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseMovementKind(payload.Kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid movement kind"))
			return
		}

		record, err := svc.Append(r.Context(), movementsvc.AppendInput{
			AssetID:               payload.AssetID,
			ActorUserID:           middleware.UserIDFromContext(r.Context()),
			OriginLocationID:      payload.OriginLocationID,
			DestinationLocationID: payload.DestinationLocationID,
			Kind:                  kind,
			Notes:                 payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newMovementResponse(record))
	}
}
