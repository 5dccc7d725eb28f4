package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sca-hospital/activos-backend/api/middleware"
	"github.com/sca-hospital/activos-backend/api/responses"
	"github.com/sca-hospital/activos-backend/api/validators"
	"github.com/sca-hospital/activos-backend/internal/masterdata"
	"github.com/sca-hospital/activos-backend/pkg/db/models"
	"github.com/sca-hospital/activos-backend/pkg/logger"
)

type nameRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type locationRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	DepartmentID int64  `json:"department_id" validate:"required,gt=0"`
}

func newLocationResponse(location *models.Location) locationResponse {
	return locationResponse{
		ID:         location.ID,
		Name:       location.Name,
		Department: location.Department.Name,
	}
}

func idParam(r *http.Request, key string) (int64, error) {
	return validators.ParsePathID(chi.URLParam(r, key))
}

func DepartmentList(svc masterdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		departments, err := svc.ListDepartments(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items := make([]namedResponse, 0, len(departments))
		for _, department := range departments {
			items = append(items, namedResponse{ID: department.ID, Name: department.Name})
		}
		responses.WriteSuccess(w, map[string]any{"departments": items})
	}
}

func DepartmentCreate(svc masterdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload nameRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		department, err := svc.CreateDepartment(r.Context(), middleware.UserIDFromContext(r.Context()), payload.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, namedResponse{ID: department.ID, Name: department.Name})
	}
}

func DepartmentUpdate(svc masterdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "departmentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload nameRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		department, err := svc.UpdateDepartment(r.Context(), middleware.UserIDFromContext(r.Context()), id, payload.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, namedResponse{ID: department.ID, Name: department.Name})
	}
}

func DepartmentDelete(svc masterdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "departmentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteDepartment(r.Context(), middleware.UserIDFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func LocationList(svc masterdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		departmentID, err := validators.ParseQueryInt(r, "department_id", 0, 0, int(^uint32(0)>>1))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		locations, err := svc.ListLocations(r.Context(), int64(departmentID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items := make([]locationResponse, 0, len(locations))
		for i := range locations {
			items = append(items, newLocationResponse(&locations[i]))
		}
		responses.WriteSuccess(w, map[string]any{"locations": items})
	}
}

func LocationCreate(svc masterdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload locationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		location, err := svc.CreateLocation(r.Context(), middleware.UserIDFromContext(r.Context()), payload.Name, payload.DepartmentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newLocationResponse(location))
	}
}

func LocationUpdate(svc masterdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "locationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload locationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		location, err := svc.UpdateLocation(r.Context(), middleware.UserIDFromContext(r.Context()), id, payload.Name, payload.DepartmentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newLocationResponse(location))
	}
}

func LocationDelete(svc masterdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "locationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteLocation(r.Context(), middleware.UserIDFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func EquipmentTypeList(svc masterdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		types, err := svc.ListEquipmentTypes(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items := make([]namedResponse, 0, len(types))
		for _, equipmentType := range types {
			items = append(items, namedResponse{ID: equipmentType.ID, Name: equipmentType.Name})
		}
		responses.WriteSuccess(w, map[string]any{"equipment_types": items})
	}
}

func EquipmentTypeCreate(svc masterdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload nameRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		equipmentType, err := svc.CreateEquipmentType(r.Context(), middleware.UserIDFromContext(r.Context()), payload.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, namedResponse{ID: equipmentType.ID, Name: equipmentType.Name})
	}
}

func EquipmentTypeUpdate(svc masterdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "typeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload nameRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		equipmentType, err := svc.UpdateEquipmentType(r.Context(), middleware.UserIDFromContext(r.Context()), id, payload.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, namedResponse{ID: equipmentType.ID, Name: equipmentType.Name})
	}
}

func EquipmentTypeDelete(svc masterdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "typeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteEquipmentType(r.Context(), middleware.UserIDFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func AssetStatusList(svc masterdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses, err := svc.ListAssetStatuses(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items := make([]namedResponse, 0, len(statuses))
		for _, status := range statuses {
			items = append(items, namedResponse{ID: status.ID, Name: status.Name})
		}
		responses.WriteSuccess(w, map[string]any{"asset_statuses": items})
	}
}

func AssetStatusCreate(svc masterdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload nameRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := svc.CreateAssetStatus(r.Context(), middleware.UserIDFromContext(r.Context()), payload.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, namedResponse{ID: status.ID, Name: status.Name})
	}
}

func AssetStatusUpdate(svc masterdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "statusID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload nameRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := svc.UpdateAssetStatus(r.Context(), middleware.UserIDFromContext(r.Context()), id, payload.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, namedResponse{ID: status.ID, Name: status.Name})
	}
}

func AssetStatusDelete(svc masterdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "statusID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteAssetStatus(r.Context(), middleware.UserIDFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func RoleList(svc masterdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roles, err := svc.ListRoles(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items := make([]namedResponse, 0, len(roles))
		for _, role := range roles {
			items = append(items, namedResponse{ID: role.ID, Name: role.Name})
		}
		responses.WriteSuccess(w, map[string]any{"roles": items})
	}
}
