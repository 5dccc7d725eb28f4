package movements

import (
	"context"

	"github.com/sca-hospital/activos-backend/pkg/db/models"
	"github.com/sca-hospital/activos-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository manages persistence for movement records. The table is
// append-only; nothing here updates or deletes rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.MovementRecord) error
	FindByID(ctx context.Context, id int64) (*models.MovementRecord, error)
	ListByAsset(ctx context.Context, assetID int64) ([]models.MovementRecord, error)
	List(ctx context.Context, params pagination.Params) ([]models.MovementRecord, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a movement repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.MovementRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.MovementRecord, error) {
	var record models.MovementRecord
	if err := r.preloaded(ctx).First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByAsset returns the full movement history of one asset, newest first.
// Ties on the timestamp fall back to the serial id, so insertion order wins.
func (r *repository) ListByAsset(ctx context.Context, assetID int64) ([]models.MovementRecord, error) {
	var records []models.MovementRecord
	if err := r.preloaded(ctx).
		Where("asset_id = ?", assetID).
		Order("moved_at DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params) ([]models.MovementRecord, error) {
	query := r.preloaded(ctx).
		Order("moved_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(moved_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var records []models.MovementRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Asset").
		Preload("Actor").
		Preload("OriginLocation.Department").
		Preload("DestinationLocation.Department")
}
