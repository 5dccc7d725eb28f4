package assets

import (
	"context"
	"errors"
	"strings"

	"github.com/sca-hospital/activos-backend/internal/audit"
	"github.com/sca-hospital/activos-backend/pkg/db/models"
	"github.com/sca-hospital/activos-backend/pkg/enums"
	pkgerrors "github.com/sca-hospital/activos-backend/pkg/errors"
	"github.com/sca-hospital/activos-backend/pkg/pagination"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateInput carries the fields required to register an asset.
type CreateInput struct {
	InventoryCode     string
	SerialNumber      string
	Brand             string
	Model             string
	TypeID            int64
	StatusID          int64
	CurrentLocationID int64
}

// UpdateInput carries a partial update. Nil fields keep their current value.
// The current location is deliberately absent: location changes go through
// the relocation workflow so the movement ledger stays complete.
type UpdateInput struct {
	InventoryCode *string
	SerialNumber  *string
	Brand         *string
	Model         *string
	TypeID        *int64
	StatusID      *int64
}

// Service exposes the asset registry operations.
type Service interface {
	Create(ctx context.Context, actorID int64, input CreateInput) (*models.Asset, error)
	Get(ctx context.Context, id int64) (*models.Asset, error)
	GetByInventoryCode(ctx context.Context, code string) (*models.Asset, error)
	Update(ctx context.Context, actorID, id int64, input UpdateInput) (*models.Asset, error)
	Delete(ctx context.Context, actorID, id int64) error
	List(ctx context.Context, params pagination.Params) ([]models.Asset, error)
}

type service struct {
	runner txRunner
	repo   Repository
	audits audit.Recorder
}

// NewService wires the asset registry.
func NewService(runner txRunner, repo Repository, audits audit.Recorder) (Service, error) {
	if runner == nil || repo == nil || audits == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "asset service dependencies missing")
	}
	return &service{runner: runner, repo: repo, audits: audits}, nil
}

func (s *service) Create(ctx context.Context, actorID int64, input CreateInput) (*models.Asset, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	asset := &models.Asset{
		InventoryCode:     strings.TrimSpace(input.InventoryCode),
		SerialNumber:      strings.TrimSpace(input.SerialNumber),
		Brand:             strings.TrimSpace(input.Brand),
		Model:             strings.TrimSpace(input.Model),
		TypeID:            input.TypeID,
		StatusID:          input.StatusID,
		CurrentLocationID: input.CurrentLocationID,
	}

	err := s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, asset); err != nil {
			return mapWriteError(err)
		}

		_, err := s.audits.WithTx(tx).Record(ctx, &actorID, enums.AuditActionCreate, map[string]any{
			"entity":         "asset",
			"asset_id":       asset.ID,
			"inventory_code": asset.InventoryCode,
			"serial_number":  asset.SerialNumber,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, asset.ID)
}

func (s *service) Get(ctx context.Context, id int64) (*models.Asset, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "asset id is required")
	}
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapReadError(err)
	}
	return asset, nil
}

func (s *service) GetByInventoryCode(ctx context.Context, code string) (*models.Asset, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory code is required")
	}
	asset, err := s.repo.FindByInventoryCode(ctx, code)
	if err != nil {
		return nil, mapReadError(err)
	}
	return asset, nil
}

func (s *service) Update(ctx context.Context, actorID, id int64, input UpdateInput) (*models.Asset, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "asset id is required")
	}

	var updated *models.Asset
	err := s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		asset, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapReadError(err)
		}

		changed := applyUpdate(asset, input)
		if len(changed) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
		}

		if err := repo.Update(ctx, asset); err != nil {
			return mapWriteError(err)
		}

		if _, err := s.audits.WithTx(tx).Record(ctx, &actorID, enums.AuditActionUpdate, map[string]any{
			"entity":         "asset",
			"asset_id":       asset.ID,
			"inventory_code": asset.InventoryCode,
			"changed_fields": changed,
		}); err != nil {
			return err
		}

		updated = asset
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, updated.ID)
}

func (s *service) Delete(ctx context.Context, actorID, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "asset id is required")
	}

	return s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		asset, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapReadError(err)
		}

		if err := repo.Delete(ctx, asset.ID); err != nil {
			if pkgerrors.IsForeignKeyViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "asset has movement history and cannot be deleted")
			}
			return err
		}

		_, err = s.audits.WithTx(tx).Record(ctx, &actorID, enums.AuditActionDelete, map[string]any{
			"entity":         "asset",
			"asset_id":       asset.ID,
			"inventory_code": asset.InventoryCode,
			"serial_number":  asset.SerialNumber,
		})
		return err
	})
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]models.Asset, error) {
	return s.repo.List(ctx, params)
}

func validateCreate(input CreateInput) error {
	switch {
	case strings.TrimSpace(input.InventoryCode) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "inventory code is required")
	case strings.TrimSpace(input.SerialNumber) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "serial number is required")
	case strings.TrimSpace(input.Brand) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "brand is required")
	case strings.TrimSpace(input.Model) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "model is required")
	case input.TypeID <= 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "equipment type id is required")
	case input.StatusID <= 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "status id is required")
	case input.CurrentLocationID <= 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "current location id is required")
	}
	return nil
}

func applyUpdate(asset *models.Asset, input UpdateInput) []string {
	var changed []string
	if input.InventoryCode != nil {
		asset.InventoryCode = strings.TrimSpace(*input.InventoryCode)
		changed = append(changed, "inventory_code")
	}
	if input.SerialNumber != nil {
		asset.SerialNumber = strings.TrimSpace(*input.SerialNumber)
		changed = append(changed, "serial_number")
	}
	if input.Brand != nil {
		asset.Brand = strings.TrimSpace(*input.Brand)
		changed = append(changed, "brand")
	}
	if input.Model != nil {
		asset.Model = strings.TrimSpace(*input.Model)
		changed = append(changed, "model")
	}
	if input.TypeID != nil {
		asset.TypeID = *input.TypeID
		changed = append(changed, "type_id")
	}
	if input.StatusID != nil {
		asset.StatusID = *input.StatusID
		changed = append(changed, "status_id")
	}
	return changed
}

func mapReadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
	}
	return err
}

func mapWriteError(err error) error {
	switch {
	case pkgerrors.IsUniqueViolation(err):
		return pkgerrors.New(pkgerrors.CodeConflict, "inventory code or serial number already registered")
	case pkgerrors.IsForeignKeyViolation(err):
		return pkgerrors.New(pkgerrors.CodeValidation, "referenced type, status or location does not exist")
	default:
		return err
	}
}
