package movements

import (
	"context"
	"fmt"

	"github.com/sca-hospital/activos-backend/pkg/db/models"
	"github.com/sca-hospital/activos-backend/pkg/enums"
	pkgerrors "github.com/sca-hospital/activos-backend/pkg/errors"
	"github.com/sca-hospital/activos-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Service defines operations over the movement ledger.
type Service interface {
	WithTx(tx *gorm.DB) Service
	Append(ctx context.Context, input AppendInput) (*models.MovementRecord, error)
	QueryByAsset(ctx context.Context, assetID int64) ([]models.MovementRecord, error)
	List(ctx context.Context, params pagination.Params) ([]models.MovementRecord, error)
}

// AppendInput captures the immutable data a movement record requires.
type AppendInput struct {
	AssetID               int64
	ActorUserID           int64
	OriginLocationID      int64
	DestinationLocationID int64
	Kind                  enums.MovementKind
	Notes                 string
}

type service struct {
	repo Repository
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("movement repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) WithTx(tx *gorm.DB) Service {
	if tx == nil {
		return s
	}
	return &service{repo: s.repo.WithTx(tx)}
}

func (s *service) Append(ctx context.Context, input AppendInput) (*models.MovementRecord, error) {
	if input.AssetID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "asset id is required")
	}
	if input.ActorUserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor user id is required")
	}
	if input.OriginLocationID <= 0 || input.DestinationLocationID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "origin and destination locations are required")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid movement kind %q", input.Kind))
	}
	if input.Kind == enums.MovementKindRelocation && input.OriginLocationID == input.DestinationLocationID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "relocation origin and destination must differ")
	}

	record := &models.MovementRecord{
		AssetID:               input.AssetID,
		ActorUserID:           input.ActorUserID,
		OriginLocationID:      input.OriginLocationID,
		DestinationLocationID: input.DestinationLocationID,
		Kind:                  input.Kind,
		Notes:                 input.Notes,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) QueryByAsset(ctx context.Context, assetID int64) ([]models.MovementRecord, error) {
	if assetID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "asset id is required")
	}
	return s.repo.ListByAsset(ctx, assetID)
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]models.MovementRecord, error) {
	return s.repo.List(ctx, params)
}
