package relocation

import (
	"context"
	"errors"
	"time"

	"github.com/sca-hospital/activos-backend/internal/assets"
	"github.com/sca-hospital/activos-backend/internal/audit"
	"github.com/sca-hospital/activos-backend/internal/masterdata"
	"github.com/sca-hospital/activos-backend/internal/movements"
	"github.com/sca-hospital/activos-backend/pkg/enums"
	pkgerrors "github.com/sca-hospital/activos-backend/pkg/errors"
	"github.com/sca-hospital/activos-backend/pkg/logger"
	"github.com/sca-hospital/activos-backend/pkg/metrics"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Input describes a relocation request.
type Input struct {
	AssetID               int64
	DestinationLocationID int64
	ActorUserID           int64
	ActorUsername         string
	Notes                 string
}

// LocationInfo is the location snapshot embedded in relocation results.
type LocationInfo struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

// Result describes a completed relocation. Origin and destination are
// captured as they were at the moment of the move so later master data edits
// do not rewrite history handed to callers.
type Result struct {
	AssetID       int64        `json:"asset_id"`
	InventoryCode string       `json:"asset_code"`
	Brand         string       `json:"brand"`
	Model         string       `json:"model"`
	Origin        LocationInfo `json:"origin"`
	Destination   LocationInfo `json:"destination"`
	MovementID    int64        `json:"movement_id"`
	MovedAt       time.Time    `json:"movement_timestamp"`
	MovedBy       string       `json:"acting_identity"`
	Notes         string       `json:"notes,omitempty"`
}

// Service executes the relocation workflow: one transaction that moves the
// asset, appends the movement ledger entry and records the audit trail.
// Either all three writes land or none do.
type Service struct {
	runner    txRunner
	assets    assets.Repository
	locations masterdata.LocationRepository
	ledger    movements.Service
	audits    audit.Recorder
	metrics   *metrics.RelocationMetrics
	logger    *logger.Logger
}

// NewService wires the relocation workflow.
func NewService(
	runner txRunner,
	assetRepo assets.Repository,
	locations masterdata.LocationRepository,
	ledger movements.Service,
	audits audit.Recorder,
	relocationMetrics *metrics.RelocationMetrics,
	logg *logger.Logger,
) (*Service, error) {
	if runner == nil || assetRepo == nil || locations == nil || ledger == nil || audits == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "relocation service dependencies missing")
	}
	return &Service{
		runner:    runner,
		assets:    assetRepo,
		locations: locations,
		ledger:    ledger,
		audits:    audits,
		metrics:   relocationMetrics,
		logger:    logg,
	}, nil
}

// Relocate moves an asset to a new location. Validation happens in a fixed
// order: unknown asset, then unknown destination, then a destination equal
// to the asset's current location. The asset row is locked for the duration
// of the transaction so concurrent moves of the same asset serialize; the
// loser of that race re-fails the same-location check after acquiring the
// lock.
func (s *Service) Relocate(ctx context.Context, input Input) (*Result, error) {
	start := time.Now()

	result, err := s.relocate(ctx, input)

	duration := time.Since(start)
	if err != nil {
		code := string(pkgerrors.CodeInternal)
		if typed := pkgerrors.As(err); typed != nil {
			code = string(typed.Code())
		}
		s.metrics.ObserveDuration("failure", duration)
		s.metrics.IncFailure(code)
		return nil, err
	}

	s.metrics.ObserveDuration("success", duration)
	s.metrics.IncSuccess()

	if s.logger != nil {
		ctx = s.logger.WithFields(ctx, map[string]any{
			"asset_id":    result.AssetID,
			"movement_id": result.MovementID,
			"origin":      result.Origin.ID,
			"destination": result.Destination.ID,
		})
		s.logger.Info(ctx, "asset relocated")
	}
	return result, nil
}

func (s *Service) relocate(ctx context.Context, input Input) (*Result, error) {
	if input.AssetID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "asset id is required")
	}
	if input.DestinationLocationID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "destination location id is required")
	}
	if input.ActorUserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor user id is required")
	}

	var result *Result
	err := s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		assetRepo := s.assets.WithTx(tx)
		locationRepo := s.locations.WithTx(tx)

		asset, err := assetRepo.FindByIDForUpdate(ctx, input.AssetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
			}
			return err
		}

		destination, err := locationRepo.FindByID(ctx, input.DestinationLocationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "destination location does not exist")
			}
			return err
		}

		if asset.CurrentLocationID == destination.ID {
			return pkgerrors.New(pkgerrors.CodeValidation, "asset is already at the destination location")
		}

		origin, err := locationRepo.FindByID(ctx, asset.CurrentLocationID)
		if err != nil {
			return err
		}

		if err := assetRepo.UpdateLocation(ctx, asset.ID, destination.ID); err != nil {
			return err
		}

		record, err := s.ledger.WithTx(tx).Append(ctx, movements.AppendInput{
			AssetID:               asset.ID,
			ActorUserID:           input.ActorUserID,
			OriginLocationID:      origin.ID,
			DestinationLocationID: destination.ID,
			Kind:                  enums.MovementKindRelocation,
			Notes:                 input.Notes,
		})
		if err != nil {
			return err
		}

		if _, err := s.audits.WithTx(tx).Record(ctx, &input.ActorUserID, enums.AuditActionAssetRelocated, map[string]any{
			"asset_id":               asset.ID,
			"inventory_code":         asset.InventoryCode,
			"brand":                  asset.Brand,
			"model":                  asset.Model,
			"origin_location":        origin.Name,
			"origin_department":      origin.Department.Name,
			"destination_location":   destination.Name,
			"destination_department": destination.Department.Name,
			"movement_id":            record.ID,
			"notes":                  input.Notes,
		}); err != nil {
			return err
		}

		result = &Result{
			AssetID:       asset.ID,
			InventoryCode: asset.InventoryCode,
			Brand:         asset.Brand,
			Model:         asset.Model,
			Origin: LocationInfo{
				ID:         origin.ID,
				Name:       origin.Name,
				Department: origin.Department.Name,
			},
			Destination: LocationInfo{
				ID:         destination.ID,
				Name:       destination.Name,
				Department: destination.Department.Name,
			},
			MovementID: record.ID,
			MovedAt:    record.MovedAt,
			MovedBy:    input.ActorUsername,
			Notes:      input.Notes,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
