package masterdata

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sca-hospital/activos-backend/internal/audit"
	"github.com/sca-hospital/activos-backend/pkg/db/models"
	"github.com/sca-hospital/activos-backend/pkg/enums"
	pkgerrors "github.com/sca-hospital/activos-backend/pkg/errors"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the catalog of departments, locations, equipment types,
// asset statuses and roles. Roles are read-only: the set is fixed by
// migration and the rest of the system keys on their names.
type Service interface {
	CreateDepartment(ctx context.Context, actorID int64, name string) (*models.Department, error)
	GetDepartment(ctx context.Context, id int64) (*models.Department, error)
	UpdateDepartment(ctx context.Context, actorID, id int64, name string) (*models.Department, error)
	DeleteDepartment(ctx context.Context, actorID, id int64) error
	ListDepartments(ctx context.Context) ([]models.Department, error)

	CreateLocation(ctx context.Context, actorID int64, name string, departmentID int64) (*models.Location, error)
	GetLocation(ctx context.Context, id int64) (*models.Location, error)
	UpdateLocation(ctx context.Context, actorID, id int64, name string, departmentID int64) (*models.Location, error)
	DeleteLocation(ctx context.Context, actorID, id int64) error
	ListLocations(ctx context.Context, departmentID int64) ([]models.Location, error)

	CreateEquipmentType(ctx context.Context, actorID int64, name string) (*models.EquipmentType, error)
	UpdateEquipmentType(ctx context.Context, actorID, id int64, name string) (*models.EquipmentType, error)
	DeleteEquipmentType(ctx context.Context, actorID, id int64) error
	ListEquipmentTypes(ctx context.Context) ([]models.EquipmentType, error)

	CreateAssetStatus(ctx context.Context, actorID int64, name string) (*models.AssetStatus, error)
	UpdateAssetStatus(ctx context.Context, actorID, id int64, name string) (*models.AssetStatus, error)
	DeleteAssetStatus(ctx context.Context, actorID, id int64) error
	ListAssetStatuses(ctx context.Context) ([]models.AssetStatus, error)

	ListRoles(ctx context.Context) ([]models.Role, error)
}

type service struct {
	runner      txRunner
	departments DepartmentRepository
	locations   LocationRepository
	types       EquipmentTypeRepository
	statuses    AssetStatusRepository
	roles       RoleRepository
	audits      audit.Recorder
}

// NewService wires the master data service.
func NewService(
	runner txRunner,
	departments DepartmentRepository,
	locations LocationRepository,
	types EquipmentTypeRepository,
	statuses AssetStatusRepository,
	roles RoleRepository,
	audits audit.Recorder,
) (Service, error) {
	if runner == nil || departments == nil || locations == nil || types == nil || statuses == nil || roles == nil || audits == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "master data service dependencies missing")
	}
	return &service{
		runner:      runner,
		departments: departments,
		locations:   locations,
		types:       types,
		statuses:    statuses,
		roles:       roles,
		audits:      audits,
	}, nil
}

func (s *service) CreateDepartment(ctx context.Context, actorID int64, name string) (*models.Department, error) {
	name, err := requireName(name, "department")
	if err != nil {
		return nil, err
	}

	department := &models.Department{Name: name}
	err = s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.departments.WithTx(tx).Create(ctx, department); err != nil {
			return mapWriteError(err, "department")
		}
		return s.recordChange(ctx, tx, actorID, enums.AuditActionCreate, "department", department.ID, department.Name)
	})
	if err != nil {
		return nil, err
	}
	return department, nil
}

func (s *service) GetDepartment(ctx context.Context, id int64) (*models.Department, error) {
	department, err := s.departments.FindByID(ctx, id)
	if err != nil {
		return nil, mapReadError(err, "department")
	}
	return department, nil
}

func (s *service) UpdateDepartment(ctx context.Context, actorID, id int64, name string) (*models.Department, error) {
	name, err := requireName(name, "department")
	if err != nil {
		return nil, err
	}

	var department *models.Department
	err = s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.departments.WithTx(tx)
		current, err := repo.FindByID(ctx, id)
		if err != nil {
			return mapReadError(err, "department")
		}
		current.Name = name
		if err := repo.Update(ctx, current); err != nil {
			return mapWriteError(err, "department")
		}
		department = current
		return s.recordChange(ctx, tx, actorID, enums.AuditActionUpdate, "department", current.ID, current.Name)
	})
	if err != nil {
		return nil, err
	}
	return department, nil
}

func (s *service) DeleteDepartment(ctx context.Context, actorID, id int64) error {
	return s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.departments.WithTx(tx)
		department, err := repo.FindByID(ctx, id)
		if err != nil {
			return mapReadError(err, "department")
		}
		if err := repo.Delete(ctx, department.ID); err != nil {
			return mapDeleteError(err, "department")
		}
		return s.recordChange(ctx, tx, actorID, enums.AuditActionDelete, "department", department.ID, department.Name)
	})
}

func (s *service) ListDepartments(ctx context.Context) ([]models.Department, error) {
	return s.departments.List(ctx)
}

func (s *service) CreateLocation(ctx context.Context, actorID int64, name string, departmentID int64) (*models.Location, error) {
	name, err := requireName(name, "location")
	if err != nil {
		return nil, err
	}
	if departmentID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "department id is required")
	}

	location := &models.Location{Name: name, DepartmentID: departmentID}
	err = s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.locations.WithTx(tx).Create(ctx, location); err != nil {
			return mapWriteError(err, "location")
		}
		return s.recordChange(ctx, tx, actorID, enums.AuditActionCreate, "location", location.ID, location.Name)
	})
	if err != nil {
		return nil, err
	}
	return s.locations.FindByID(ctx, location.ID)
}

func (s *service) GetLocation(ctx context.Context, id int64) (*models.Location, error) {
	location, err := s.locations.FindByID(ctx, id)
	if err != nil {
		return nil, mapReadError(err, "location")
	}
	return location, nil
}

func (s *service) UpdateLocation(ctx context.Context, actorID, id int64, name string, departmentID int64) (*models.Location, error) {
	name, err := requireName(name, "location")
	if err != nil {
		return nil, err
	}
	if departmentID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "department id is required")
	}

	err = s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.locations.WithTx(tx)
		current, err := repo.FindByID(ctx, id)
		if err != nil {
			return mapReadError(err, "location")
		}
		current.Name = name
		current.DepartmentID = departmentID
		if err := repo.Update(ctx, current); err != nil {
			return mapWriteError(err, "location")
		}
		return s.recordChange(ctx, tx, actorID, enums.AuditActionUpdate, "location", current.ID, current.Name)
	})
	if err != nil {
		return nil, err
	}
	return s.locations.FindByID(ctx, id)
}

func (s *service) DeleteLocation(ctx context.Context, actorID, id int64) error {
	return s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.locations.WithTx(tx)
		location, err := repo.FindByID(ctx, id)
		if err != nil {
			return mapReadError(err, "location")
		}
		if err := repo.Delete(ctx, location.ID); err != nil {
			return mapDeleteError(err, "location")
		}
		return s.recordChange(ctx, tx, actorID, enums.AuditActionDelete, "location", location.ID, location.Name)
	})
}

func (s *service) ListLocations(ctx context.Context, departmentID int64) ([]models.Location, error) {
	if departmentID > 0 {
		return s.locations.ListByDepartment(ctx, departmentID)
	}
	return s.locations.List(ctx)
}

func (s *service) CreateEquipmentType(ctx context.Context, actorID int64, name string) (*models.EquipmentType, error) {
	name, err := requireName(name, "equipment type")
	if err != nil {
		return nil, err
	}

	equipmentType := &models.EquipmentType{Name: name}
	err = s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.types.WithTx(tx).Create(ctx, equipmentType); err != nil {
			return mapWriteError(err, "equipment type")
		}
		return s.recordChange(ctx, tx, actorID, enums.AuditActionCreate, "equipment_type", equipmentType.ID, equipmentType.Name)
	})
	if err != nil {
		return nil, err
	}
	return equipmentType, nil
}

func (s *service) UpdateEquipmentType(ctx context.Context, actorID, id int64, name string) (*models.EquipmentType, error) {
	name, err := requireName(name, "equipment type")
	if err != nil {
		return nil, err
	}

	var equipmentType *models.EquipmentType
	err = s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.types.WithTx(tx)
		current, err := repo.FindByID(ctx, id)
		if err != nil {
			return mapReadError(err, "equipment type")
		}
		current.Name = name
		if err := repo.Update(ctx, current); err != nil {
			return mapWriteError(err, "equipment type")
		}
		equipmentType = current
		return s.recordChange(ctx, tx, actorID, enums.AuditActionUpdate, "equipment_type", current.ID, current.Name)
	})
	if err != nil {
		return nil, err
	}
	return equipmentType, nil
}

func (s *service) DeleteEquipmentType(ctx context.Context, actorID, id int64) error {
	return s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.types.WithTx(tx)
		equipmentType, err := repo.FindByID(ctx, id)
		if err != nil {
			return mapReadError(err, "equipment type")
		}
		if err := repo.Delete(ctx, equipmentType.ID); err != nil {
			return mapDeleteError(err, "equipment type")
		}
		return s.recordChange(ctx, tx, actorID, enums.AuditActionDelete, "equipment_type", equipmentType.ID, equipmentType.Name)
	})
}

func (s *service) ListEquipmentTypes(ctx context.Context) ([]models.EquipmentType, error) {
	return s.types.List(ctx)
}

func (s *service) CreateAssetStatus(ctx context.Context, actorID int64, name string) (*models.AssetStatus, error) {
	name, err := requireName(name, "asset status")
	if err != nil {
		return nil, err
	}

	status := &models.AssetStatus{Name: name}
	err = s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.statuses.WithTx(tx).Create(ctx, status); err != nil {
			return mapWriteError(err, "asset status")
		}
		return s.recordChange(ctx, tx, actorID, enums.AuditActionCreate, "asset_status", status.ID, status.Name)
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

func (s *service) UpdateAssetStatus(ctx context.Context, actorID, id int64, name string) (*models.AssetStatus, error) {
	name, err := requireName(name, "asset status")
	if err != nil {
		return nil, err
	}

	var status *models.AssetStatus
	err = s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.statuses.WithTx(tx)
		current, err := repo.FindByID(ctx, id)
		if err != nil {
			return mapReadError(err, "asset status")
		}
		current.Name = name
		if err := repo.Update(ctx, current); err != nil {
			return mapWriteError(err, "asset status")
		}
		status = current
		return s.recordChange(ctx, tx, actorID, enums.AuditActionUpdate, "asset_status", current.ID, current.Name)
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

func (s *service) DeleteAssetStatus(ctx context.Context, actorID, id int64) error {
	return s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.statuses.WithTx(tx)
		status, err := repo.FindByID(ctx, id)
		if err != nil {
			return mapReadError(err, "asset status")
		}
		if err := repo.Delete(ctx, status.ID); err != nil {
			return mapDeleteError(err, "asset status")
		}
		return s.recordChange(ctx, tx, actorID, enums.AuditActionDelete, "asset_status", status.ID, status.Name)
	})
}

func (s *service) ListAssetStatuses(ctx context.Context) ([]models.AssetStatus, error) {
	return s.statuses.List(ctx)
}

func (s *service) ListRoles(ctx context.Context) ([]models.Role, error) {
	return s.roles.List(ctx)
}

func (s *service) recordChange(ctx context.Context, tx *gorm.DB, actorID int64, action enums.AuditAction, entity string, id int64, name string) error {
	_, err := s.audits.WithTx(tx).Record(ctx, &actorID, action, map[string]any{
		"entity": entity,
		"id":     id,
		"name":   name,
	})
	return err
}

func requireName(name, entity string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s name is required", entity))
	}
	return name, nil
}

func mapReadError(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s not found", entity))
	}
	return err
}

func mapWriteError(err error, entity string) error {
	switch {
	case pkgerrors.IsUniqueViolation(err):
		return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("%s already exists", entity))
	case pkgerrors.IsForeignKeyViolation(err):
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s references a missing record", entity))
	default:
		return err
	}
}

// mapDeleteError turns a blocked foreign key into a conflict so callers learn
// the record is still referenced rather than seeing a bare database error.
func mapDeleteError(err error, entity string) error {
	if pkgerrors.IsForeignKeyViolation(err) {
		return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("%s is still referenced and cannot be deleted", entity))
	}
	return err
}
