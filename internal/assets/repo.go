package assets

import (
	"context"

	"github.com/sca-hospital/activos-backend/pkg/db/models"
	"github.com/sca-hospital/activos-backend/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository manages persistence for assets.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, asset *models.Asset) error
	FindByID(ctx context.Context, id int64) (*models.Asset, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*models.Asset, error)
	FindByInventoryCode(ctx context.Context, code string) (*models.Asset, error)
	Update(ctx context.Context, asset *models.Asset) error
	UpdateLocation(ctx context.Context, assetID, locationID int64) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, params pagination.Params) ([]models.Asset, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an asset repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, asset *models.Asset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Asset, error) {
	var asset models.Asset
	if err := r.preloaded(ctx).First(&asset, id).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// FindByIDForUpdate loads the bare asset row under a row lock. Callers must
// run inside a transaction for the lock to mean anything.
func (r *repository) FindByIDForUpdate(ctx context.Context, id int64) (*models.Asset, error) {
	var asset models.Asset
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&asset, id).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *repository) FindByInventoryCode(ctx context.Context, code string) (*models.Asset, error) {
	var asset models.Asset
	if err := r.preloaded(ctx).
		Where("inventory_code = ?", code).
		First(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *repository) Update(ctx context.Context, asset *models.Asset) error {
	return r.db.WithContext(ctx).Save(asset).Error
}

func (r *repository) UpdateLocation(ctx context.Context, assetID, locationID int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Asset{}).
		Where("id = ?", assetID).
		Update("current_location_id", locationID).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Asset{}, id).Error
}

func (r *repository) List(ctx context.Context, params pagination.Params) ([]models.Asset, error) {
	query := r.preloaded(ctx).
		Order("registered_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(registered_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var list []models.Asset
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Type").
		Preload("Status").
		Preload("CurrentLocation.Department")
}
