package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sca-hospital/activos-backend/api/middleware"
	"github.com/sca-hospital/activos-backend/api/responses"
	"github.com/sca-hospital/activos-backend/api/validators"
	assetsvc "github.com/sca-hospital/activos-backend/internal/assets"
	"github.com/sca-hospital/activos-backend/internal/relocation"
	"github.com/sca-hospital/activos-backend/pkg/db/models"
	pkgerrors "github.com/sca-hospital/activos-backend/pkg/errors"
	"github.com/sca-hospital/activos-backend/pkg/logger"
	"github.com/sca-hospital/activos-backend/pkg/pagination"
)

type assetCreateRequest struct {
	InventoryCode     string `json:"inventory_code" validate:"required,max=50"`
	SerialNumber      string `json:"serial_number" validate:"required,max=100"`
	Brand             string `json:"brand" validate:"required,max=100"`
	Model             string `json:"model" validate:"required,max=100"`
	TypeID            int64  `json:"type_id" validate:"required,gt=0"`
	StatusID          int64  `json:"status_id" validate:"required,gt=0"`
	CurrentLocationID int64  `json:"current_location_id" validate:"required,gt=0"`
}

type assetUpdateRequest struct {
	InventoryCode *string `json:"inventory_code,omitempty" validate:"omitempty,max=50"`
	SerialNumber  *string `json:"serial_number,omitempty" validate:"omitempty,max=100"`
	Brand         *string `json:"brand,omitempty" validate:"omitempty,max=100"`
	Model         *string `json:"model,omitempty" validate:"omitempty,max=100"`
	TypeID        *int64  `json:"type_id,omitempty" validate:"omitempty,gt=0"`
	StatusID      *int64  `json:"status_id,omitempty" validate:"omitempty,gt=0"`
}

type relocateRequest struct {
	DestinationLocationID int64  `json:"destination_location_id" validate:"required,gt=0"`
	Notes                 string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type namedResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type locationResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
}

type assetResponse struct {
	ID              int64            `json:"id"`
	InventoryCode   string           `json:"inventory_code"`
	SerialNumber    string           `json:"serial_number"`
	Brand           string           `json:"brand"`
	Model           string           `json:"model"`
	Type            namedResponse    `json:"type"`
	Status          namedResponse    `json:"status"`
	CurrentLocation locationResponse `json:"current_location"`
	RegisteredAt    time.Time        `json:"registered_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func newAssetResponse(asset *models.Asset) assetResponse {
	return assetResponse{
		ID:            asset.ID,
		InventoryCode: asset.InventoryCode,
		SerialNumber:  asset.SerialNumber,
		Brand:         asset.Brand,
		Model:         asset.Model,
		Type:          namedResponse{ID: asset.TypeID, Name: asset.Type.Name},
		Status:        namedResponse{ID: asset.StatusID, Name: asset.Status.Name},
		CurrentLocation: locationResponse{
			ID:         asset.CurrentLocationID,
			Name:       asset.CurrentLocation.Name,
			Department: asset.CurrentLocation.Department.Name,
		},
		RegisteredAt: asset.RegisteredAt,
		UpdatedAt:    asset.UpdatedAt,
	}
}

func assetIDParam(r *http.Request) (int64, error) {
	return validators.ParsePathID(chi.URLParam(r, "assetID"))
}

// AssetList returns the registry page by page, newest registrations first.
func AssetList(svc assetsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]assetResponse, 0, len(list))
		for i := range list {
			items = append(items, newAssetResponse(&list[i]))
		}
		responses.WriteSuccess(w, map[string]any{"assets": items})
	}
}

func AssetGet(svc assetsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := assetIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		asset, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newAssetResponse(asset))
	}
}

func AssetCreate(svc assetsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload assetCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		asset, err := svc.Create(r.Context(), middleware.UserIDFromContext(r.Context()), assetsvc.CreateInput{
			InventoryCode:     payload.InventoryCode,
			SerialNumber:      payload.SerialNumber,
			Brand:             payload.Brand,
			Model:             payload.Model,
			TypeID:            payload.TypeID,
			StatusID:          payload.StatusID,
			CurrentLocationID: payload.CurrentLocationID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newAssetResponse(asset))
	}
}

func AssetUpdate(svc assetsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := assetIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload assetUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		asset, err := svc.Update(r.Context(), middleware.UserIDFromContext(r.Context()), id, assetsvc.UpdateInput{
			InventoryCode: payload.InventoryCode,
			SerialNumber:  payload.SerialNumber,
			Brand:         payload.Brand,
			Model:         payload.Model,
			TypeID:        payload.TypeID,
			StatusID:      payload.StatusID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newAssetResponse(asset))
	}
}

func AssetDelete(svc assetsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := assetIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), middleware.UserIDFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AssetRelocate executes the relocation workflow for one asset.
func AssetRelocate(svc *relocation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "relocation service unavailable"))
			return
		}

		id, err := assetIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload relocateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		result, err := svc.Relocate(ctx, relocation.Input{
			AssetID:               id,
			DestinationLocationID: payload.DestinationLocationID,
			ActorUserID:           middleware.UserIDFromContext(ctx),
			ActorUsername:         middleware.UsernameFromContext(ctx),
			Notes:                 payload.Notes,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func paginationParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	}, nil
}
