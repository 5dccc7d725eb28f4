package masterdata

import (
	"context"

	"github.com/sca-hospital/activos-backend/pkg/db/models"
	"gorm.io/gorm"
)

// DepartmentRepository manages persistence for departments.
type DepartmentRepository interface {
	WithTx(tx *gorm.DB) DepartmentRepository
	Create(ctx context.Context, department *models.Department) error
	FindByID(ctx context.Context, id int64) (*models.Department, error)
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.Department, error)
}

// LocationRepository manages persistence for locations.
type LocationRepository interface {
	WithTx(tx *gorm.DB) LocationRepository
	Create(ctx context.Context, location *models.Location) error
	FindByID(ctx context.Context, id int64) (*models.Location, error)
	Update(ctx context.Context, location *models.Location) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.Location, error)
	ListByDepartment(ctx context.Context, departmentID int64) ([]models.Location, error)
}

// EquipmentTypeRepository manages persistence for equipment types.
type EquipmentTypeRepository interface {
	WithTx(tx *gorm.DB) EquipmentTypeRepository
	Create(ctx context.Context, equipmentType *models.EquipmentType) error
	FindByID(ctx context.Context, id int64) (*models.EquipmentType, error)
	Update(ctx context.Context, equipmentType *models.EquipmentType) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.EquipmentType, error)
}

// AssetStatusRepository manages persistence for asset statuses.
type AssetStatusRepository interface {
	WithTx(tx *gorm.DB) AssetStatusRepository
	Create(ctx context.Context, status *models.AssetStatus) error
	FindByID(ctx context.Context, id int64) (*models.AssetStatus, error)
	Update(ctx context.Context, status *models.AssetStatus) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.AssetStatus, error)
}

// RoleRepository manages read access to roles. Roles are seeded by migration
// and never created through the API.
type RoleRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Role, error)
	FindByName(ctx context.Context, name string) (*models.Role, error)
	List(ctx context.Context) ([]models.Role, error)
}

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository returns a department repository bound to the database.
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) WithTx(tx *gorm.DB) DepartmentRepository {
	if tx == nil {
		return r
	}
	return &departmentRepository{db: tx}
}

func (r *departmentRepository) Create(ctx context.Context, department *models.Department) error {
	return r.db.WithContext(ctx).Create(department).Error
}

func (r *departmentRepository) FindByID(ctx context.Context, id int64) (*models.Department, error) {
	var department models.Department
	if err := r.db.WithContext(ctx).First(&department, id).Error; err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *departmentRepository) Update(ctx context.Context, department *models.Department) error {
	return r.db.WithContext(ctx).Save(department).Error
}

func (r *departmentRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Department{}, id).Error
}

func (r *departmentRepository) List(ctx context.Context) ([]models.Department, error) {
	var departments []models.Department
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository returns a location repository bound to the database.
func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) WithTx(tx *gorm.DB) LocationRepository {
	if tx == nil {
		return r
	}
	return &locationRepository{db: tx}
}

func (r *locationRepository) Create(ctx context.Context, location *models.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *locationRepository) FindByID(ctx context.Context, id int64) (*models.Location, error) {
	var location models.Location
	if err := r.db.WithContext(ctx).
		Preload("Department").
		First(&location, id).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *locationRepository) Update(ctx context.Context, location *models.Location) error {
	return r.db.WithContext(ctx).Save(location).Error
}

func (r *locationRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Location{}, id).Error
}

func (r *locationRepository) List(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	if err := r.db.WithContext(ctx).
		Preload("Department").
		Order("name ASC").
		Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *locationRepository) ListByDepartment(ctx context.Context, departmentID int64) ([]models.Location, error) {
	var locations []models.Location
	if err := r.db.WithContext(ctx).
		Preload("Department").
		Where("department_id = ?", departmentID).
		Order("name ASC").
		Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

type equipmentTypeRepository struct {
	db *gorm.DB
}

// NewEquipmentTypeRepository returns an equipment type repository bound to the database.
func NewEquipmentTypeRepository(db *gorm.DB) EquipmentTypeRepository {
	return &equipmentTypeRepository{db: db}
}

func (r *equipmentTypeRepository) WithTx(tx *gorm.DB) EquipmentTypeRepository {
	if tx == nil {
		return r
	}
	return &equipmentTypeRepository{db: tx}
}

func (r *equipmentTypeRepository) Create(ctx context.Context, equipmentType *models.EquipmentType) error {
	return r.db.WithContext(ctx).Create(equipmentType).Error
}

func (r *equipmentTypeRepository) FindByID(ctx context.Context, id int64) (*models.EquipmentType, error) {
	var equipmentType models.EquipmentType
	if err := r.db.WithContext(ctx).First(&equipmentType, id).Error; err != nil {
		return nil, err
	}
	return &equipmentType, nil
}

func (r *equipmentTypeRepository) Update(ctx context.Context, equipmentType *models.EquipmentType) error {
	return r.db.WithContext(ctx).Save(equipmentType).Error
}

func (r *equipmentTypeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.EquipmentType{}, id).Error
}

func (r *equipmentTypeRepository) List(ctx context.Context) ([]models.EquipmentType, error) {
	var types []models.EquipmentType
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

type assetStatusRepository struct {
	db *gorm.DB
}

// NewAssetStatusRepository returns an asset status repository bound to the database.
func NewAssetStatusRepository(db *gorm.DB) AssetStatusRepository {
	return &assetStatusRepository{db: db}
}

func (r *assetStatusRepository) WithTx(tx *gorm.DB) AssetStatusRepository {
	if tx == nil {
		return r
	}
	return &assetStatusRepository{db: tx}
}

func (r *assetStatusRepository) Create(ctx context.Context, status *models.AssetStatus) error {
	return r.db.WithContext(ctx).Create(status).Error
}

func (r *assetStatusRepository) FindByID(ctx context.Context, id int64) (*models.AssetStatus, error) {
	var status models.AssetStatus
	if err := r.db.WithContext(ctx).First(&status, id).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *assetStatusRepository) Update(ctx context.Context, status *models.AssetStatus) error {
	return r.db.WithContext(ctx).Save(status).Error
}

func (r *assetStatusRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.AssetStatus{}, id).Error
}

func (r *assetStatusRepository) List(ctx context.Context) ([]models.AssetStatus, error) {
	var statuses []models.AssetStatus
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository returns a role repository bound to the database.
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) FindByID(ctx context.Context, id int64) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) List(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}
