package movements

import (
	"context"
	"testing"

	"github.com/sca-hospital/activos-backend/pkg/db/models"
	"github.com/sca-hospital/activos-backend/pkg/enums"
	pkgerrors "github.com/sca-hospital/activos-backend/pkg/errors"
	"github.com/sca-hospital/activos-backend/pkg/pagination"
	"gorm.io/gorm"
)

type fakeRepository struct {
	createFn func(ctx context.Context, record *models.MovementRecord) error
	byAsset  []models.MovementRecord
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, record *models.MovementRecord) error {
	if f.createFn != nil {
		return f.createFn(ctx, record)
	}
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id int64) (*models.MovementRecord, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ListByAsset(ctx context.Context, assetID int64) ([]models.MovementRecord, error) {
	return f.byAsset, nil
}

func (f *fakeRepository) List(ctx context.Context, params pagination.Params) ([]models.MovementRecord, error) {
	return nil, nil
}

func validInput() AppendInput {
	return AppendInput{
		AssetID:               1,
		ActorUserID:           2,
		OriginLocationID:      10,
		DestinationLocationID: 20,
		Kind:                  enums.MovementKindRelocation,
		Notes:                 "routine transfer",
	}
}

func TestService_Append(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	var created *models.MovementRecord
	repo.createFn = func(ctx context.Context, record *models.MovementRecord) error {
		created = record
		return nil
	}

	got, err := svc.Append(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if created == nil {
		t.Fatal("expected movement record to be created")
	}
	if created.AssetID != 1 || created.ActorUserID != 2 {
		t.Fatalf("unexpected record data: %+v", created)
	}
	if created.OriginLocationID != 10 || created.DestinationLocationID != 20 {
		t.Fatalf("unexpected locations: %+v", created)
	}
	if created.Kind != enums.MovementKindRelocation {
		t.Fatalf("unexpected kind: %s", created.Kind)
	}
	if got != created {
		t.Fatal("service should return the created record")
	}
}

func TestService_Append_Validation(t *testing.T) {
	svc, _ := NewService(&fakeRepository{})

	cases := map[string]func(*AppendInput){
		"missing asset":       func(in *AppendInput) { in.AssetID = 0 },
		"missing actor":       func(in *AppendInput) { in.ActorUserID = 0 },
		"missing origin":      func(in *AppendInput) { in.OriginLocationID = 0 },
		"missing destination": func(in *AppendInput) { in.DestinationLocationID = 0 },
		"invalid kind":        func(in *AppendInput) { in.Kind = enums.MovementKind("TELEPORT") },
		"same location relocation": func(in *AppendInput) {
			in.OriginLocationID = 5
			in.DestinationLocationID = 5
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := validInput()
			mutate(&input)
			_, err := svc.Append(context.Background(), input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation code, got %v", err)
			}
		})
	}
}

func TestService_Append_SameLocationNonRelocation(t *testing.T) {
	// a maintenance return can land back where it started
	repo := &fakeRepository{}
	svc, _ := NewService(repo)

	input := validInput()
	input.Kind = enums.MovementKindMaintenanceReturn
	input.OriginLocationID = 5
	input.DestinationLocationID = 5

	if _, err := svc.Append(context.Background(), input); err != nil {
		t.Fatalf("expected non-relocation same-location append to succeed, got %v", err)
	}
}

func TestService_QueryByAsset(t *testing.T) {
	repo := &fakeRepository{byAsset: []models.MovementRecord{{ID: 2}, {ID: 1}}}
	svc, _ := NewService(repo)

	records, err := svc.QueryByAsset(context.Background(), 1)
	if err != nil {
		t.Fatalf("QueryByAsset error: %v", err)
	}
	if len(records) != 2 || records[0].ID != 2 {
		t.Fatalf("unexpected records: %+v", records)
	}

	if _, err := svc.QueryByAsset(context.Background(), 0); err == nil {
		t.Fatal("expected invalid asset id to fail")
	}
}
