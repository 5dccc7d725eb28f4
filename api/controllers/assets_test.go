package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/sca-hospital/activos-backend/api/middleware"
	assetsvc "github.com/sca-hospital/activos-backend/internal/assets"
	"github.com/sca-hospital/activos-backend/internal/audit"
	"github.com/sca-hospital/activos-backend/internal/masterdata"
	"github.com/sca-hospital/activos-backend/internal/movements"
	"github.com/sca-hospital/activos-backend/internal/relocation"
	"github.com/sca-hospital/activos-backend/pkg/db/models"
	"github.com/sca-hospital/activos-backend/pkg/enums"
	pkgerrors "github.com/sca-hospital/activos-backend/pkg/errors"
	"github.com/sca-hospital/activos-backend/pkg/logger"
	"github.com/sca-hospital/activos-backend/pkg/pagination"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func technicianContext(userID int64, username string) context.Context {
	role := enums.RoleTechnician
	return middleware.WithActor(context.Background(), userID, username, &role, "session-1")
}

func withAssetID(ctx context.Context, id string) context.Context {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("assetID", id)
	return context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	return envelope
}

func TestAssetGet(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubAssetService{asset: sampleAsset()}
		ctx := withAssetID(technicianContext(7, "tech.jones"), "10")
		req := httptest.NewRequest(http.MethodGet, "/api/v1/assets/10", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		AssetGet(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		envelope := decodeEnvelope(t, rec)
		if envelope["status"] != "success" {
			t.Fatalf("expected success status, got %v", envelope["status"])
		}
		data := envelope["data"].(map[string]any)
		if data["inventory_code"] != "INV-0042" {
			t.Fatalf("unexpected inventory code %v", data["inventory_code"])
		}
		location := data["current_location"].(map[string]any)
		if location["name"] != "Room 101" || location["department"] != "Radiology" {
			t.Fatalf("unexpected location payload %v", location)
		}
	})

	t.Run("not found", func(t *testing.T) {
		stub := &stubAssetService{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")}
		ctx := withAssetID(technicianContext(7, "tech.jones"), "999")
		req := httptest.NewRequest(http.MethodGet, "/api/v1/assets/999", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		AssetGet(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		envelope := decodeEnvelope(t, rec)
		if envelope["message"] != "asset not found" {
			t.Fatalf("unexpected message %v", envelope["message"])
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		stub := &stubAssetService{}
		ctx := withAssetID(technicianContext(7, "tech.jones"), "abc")
		req := httptest.NewRequest(http.MethodGet, "/api/v1/assets/abc", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		AssetGet(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAssetCreate(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubAssetService{asset: sampleAsset()}
		body := `{"inventory_code":"INV-0042","serial_number":"SN-9","brand":"Siemens","model":"Mobilett","type_id":1,"status_id":1,"current_location_id":1}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/assets", strings.NewReader(body)).
			WithContext(technicianContext(7, "tech.jones"))
		rec := httptest.NewRecorder()

		AssetCreate(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		if stub.createInput == nil {
			t.Fatalf("expected Create to be invoked")
		}
		if stub.createInput.InventoryCode != "INV-0042" || stub.createInput.CurrentLocationID != 1 {
			t.Fatalf("unexpected create input %+v", stub.createInput)
		}
		if stub.createActor != 7 {
			t.Fatalf("expected actor 7, got %d", stub.createActor)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		stub := &stubAssetService{}
		body := `{"brand":"Siemens"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/assets", strings.NewReader(body)).
			WithContext(technicianContext(7, "tech.jones"))
		rec := httptest.NewRecorder()

		AssetCreate(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if stub.createInput != nil {
			t.Fatalf("service must not be called on invalid payload")
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		stub := &stubAssetService{}
		body := `{"inventory_code":"INV-1","serial_number":"SN","brand":"b","model":"m","type_id":1,"status_id":1,"current_location_id":1,"surprise":true}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/assets", strings.NewReader(body)).
			WithContext(technicianContext(7, "tech.jones"))
		rec := httptest.NewRecorder()

		AssetCreate(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
		}
	})
}

func TestAssetRelocate(t *testing.T) {
	logg := testLogger()

	relocate := func(t *testing.T, fx *relocateFixture, assetID, body string, ctx context.Context) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/assets/"+assetID+"/relocate", strings.NewReader(body)).
			WithContext(withAssetID(ctx, assetID))
		rec := httptest.NewRecorder()
		AssetRelocate(fx.svc, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("success", func(t *testing.T) {
		fx := newRelocateFixture(t)
		rec := relocate(t, fx, "10", `{"destination_location_id":2,"notes":"annual inventory"}`, technicianContext(42, "tech.jones"))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		envelope := decodeEnvelope(t, rec)
		if envelope["status"] != "success" {
			t.Fatalf("expected success status, got %v", envelope["status"])
		}
		data := envelope["data"].(map[string]any)
		if data["asset_id"] != float64(10) {
			t.Fatalf("unexpected asset id %v", data["asset_id"])
		}
		if data["acting_identity"] != "tech.jones" {
			t.Fatalf("unexpected acting identity %v", data["acting_identity"])
		}
		if data["movement_id"] != float64(77) {
			t.Fatalf("unexpected movement id %v", data["movement_id"])
		}
		origin := data["origin"].(map[string]any)
		destination := data["destination"].(map[string]any)
		if origin["name"] != "Room 101" || destination["name"] != "ICU Bay 3" {
			t.Fatalf("unexpected endpoints %v -> %v", origin, destination)
		}
		if fx.assets.updatedTo != 2 {
			t.Fatalf("expected asset moved to location 2, got %d", fx.assets.updatedTo)
		}
		if fx.ledger.appended == nil || fx.ledger.appended.Kind != enums.MovementKindRelocation {
			t.Fatalf("expected a relocation ledger entry, got %+v", fx.ledger.appended)
		}
		if fx.audits.action != enums.AuditActionAssetRelocated {
			t.Fatalf("expected relocation audit entry, got %q", fx.audits.action)
		}
	})

	t.Run("unknown asset", func(t *testing.T) {
		fx := newRelocateFixture(t)
		rec := relocate(t, fx, "999", `{"destination_location_id":2}`, technicianContext(42, "tech.jones"))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if fx.ledger.appended != nil || fx.audits.action != "" {
			t.Fatalf("no writes expected for unknown asset")
		}
	})

	t.Run("unknown destination", func(t *testing.T) {
		fx := newRelocateFixture(t)
		rec := relocate(t, fx, "10", `{"destination_location_id":404}`, technicianContext(42, "tech.jones"))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		envelope := decodeEnvelope(t, rec)
		if envelope["message"] != "destination location does not exist" {
			t.Fatalf("unexpected message %v", envelope["message"])
		}
	})

	t.Run("already at destination", func(t *testing.T) {
		fx := newRelocateFixture(t)
		rec := relocate(t, fx, "10", `{"destination_location_id":1}`, technicianContext(42, "tech.jones"))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		envelope := decodeEnvelope(t, rec)
		if envelope["message"] != "asset is already at the destination location" {
			t.Fatalf("unexpected message %v", envelope["message"])
		}
		if fx.assets.updatedTo != 0 {
			t.Fatalf("location must not change, got update to %d", fx.assets.updatedTo)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		fx := newRelocateFixture(t)
		rec := relocate(t, fx, "10", `{"destination_location_id":`, technicianContext(42, "tech.jones"))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("missing destination", func(t *testing.T) {
		fx := newRelocateFixture(t)
		rec := relocate(t, fx, "10", `{"notes":"no destination"}`, technicianContext(42, "tech.jones"))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func sampleAsset() *models.Asset {
	return &models.Asset{
		ID:                10,
		InventoryCode:     "INV-0042",
		SerialNumber:      "SN-9",
		Brand:             "Siemens",
		Model:             "Mobilett",
		TypeID:            1,
		Type:              models.EquipmentType{ID: 1, Name: "Portable X-Ray"},
		StatusID:          1,
		Status:            models.AssetStatus{ID: 1, Name: "Operational"},
		CurrentLocationID: 1,
		CurrentLocation: models.Location{
			ID:         1,
			Name:       "Room 101",
			Department: models.Department{ID: 1, Name: "Radiology"},
		},
		RegisteredAt: time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC),
	}
}

type stubAssetService struct {
	asset       *models.Asset
	getErr      error
	createInput *assetsvc.CreateInput
	createActor int64
}

func (s *stubAssetService) Create(ctx context.Context, actorID int64, input assetsvc.CreateInput) (*models.Asset, error) {
	s.createInput = &input
	s.createActor = actorID
	return s.asset, nil
}

func (s *stubAssetService) Get(ctx context.Context, id int64) (*models.Asset, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.asset, nil
}

func (s *stubAssetService) GetByInventoryCode(ctx context.Context, code string) (*models.Asset, error) {
	panic("unimplemented")
}

func (s *stubAssetService) Update(ctx context.Context, actorID, id int64, input assetsvc.UpdateInput) (*models.Asset, error) {
	panic("unimplemented")
}

func (s *stubAssetService) Delete(ctx context.Context, actorID, id int64) error {
	panic("unimplemented")
}

func (s *stubAssetService) List(ctx context.Context, params pagination.Params) ([]models.Asset, error) {
	panic("unimplemented")
}

// relocateFixture wires a real relocation service to in-memory stubs so the
// handler test covers the full request path below the router.
type relocateFixture struct {
	assets *stubAssetRepo
	ledger *stubLedger
	audits *stubAuditRecorder
	svc    *relocation.Service
}

func newRelocateFixture(t *testing.T) *relocateFixture {
	t.Helper()
	radiology := models.Department{ID: 1, Name: "Radiology"}
	icu := models.Department{ID: 2, Name: "Intensive Care"}

	assets := &stubAssetRepo{asset: sampleAsset()}
	locations := &stubLocationRepo{byID: map[int64]*models.Location{
		1: {ID: 1, Name: "Room 101", DepartmentID: 1, Department: radiology},
		2: {ID: 2, Name: "ICU Bay 3", DepartmentID: 2, Department: icu},
	}}
	ledger := &stubLedger{}
	audits := &stubAuditRecorder{}

	svc, err := relocation.NewService(stubTxRunner{}, assets, locations, ledger, audits, nil, nil)
	if err != nil {
		t.Fatalf("building relocation service: %v", err)
	}
	return &relocateFixture{assets: assets, ledger: ledger, audits: audits, svc: svc}
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubAssetRepo struct {
	asset     *models.Asset
	updatedTo int64
}

func (r *stubAssetRepo) WithTx(tx *gorm.DB) assetsvc.Repository { return r }

func (r *stubAssetRepo) Create(ctx context.Context, asset *models.Asset) error {
	panic("unimplemented")
}

func (r *stubAssetRepo) FindByID(ctx context.Context, id int64) (*models.Asset, error) {
	panic("unimplemented")
}

func (r *stubAssetRepo) FindByIDForUpdate(ctx context.Context, id int64) (*models.Asset, error) {
	if r.asset == nil || r.asset.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *r.asset
	return &copied, nil
}

func (r *stubAssetRepo) FindByInventoryCode(ctx context.Context, code string) (*models.Asset, error) {
	panic("unimplemented")
}

func (r *stubAssetRepo) Update(ctx context.Context, asset *models.Asset) error {
	panic("unimplemented")
}

func (r *stubAssetRepo) UpdateLocation(ctx context.Context, assetID, locationID int64) error {
	r.updatedTo = locationID
	return nil
}

func (r *stubAssetRepo) Delete(ctx context.Context, id int64) error {
	panic("unimplemented")
}

func (r *stubAssetRepo) List(ctx context.Context, params pagination.Params) ([]models.Asset, error) {
	panic("unimplemented")
}

type stubLocationRepo struct {
	byID map[int64]*models.Location
}

func (r *stubLocationRepo) WithTx(tx *gorm.DB) masterdata.LocationRepository { return r }

func (r *stubLocationRepo) Create(ctx context.Context, location *models.Location) error {
	panic("unimplemented")
}

func (r *stubLocationRepo) FindByID(ctx context.Context, id int64) (*models.Location, error) {
	location, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return location, nil
}

func (r *stubLocationRepo) Update(ctx context.Context, location *models.Location) error {
	panic("unimplemented")
}

func (r *stubLocationRepo) Delete(ctx context.Context, id int64) error {
	panic("unimplemented")
}

func (r *stubLocationRepo) List(ctx context.Context) ([]models.Location, error) {
	panic("unimplemented")
}

func (r *stubLocationRepo) ListByDepartment(ctx context.Context, departmentID int64) ([]models.Location, error) {
	panic("unimplemented")
}

type stubLedger struct {
	appended *movements.AppendInput
}

func (l *stubLedger) WithTx(tx *gorm.DB) movements.Service { return l }

func (l *stubLedger) Append(ctx context.Context, input movements.AppendInput) (*models.MovementRecord, error) {
	l.appended = &input
	return &models.MovementRecord{
		ID:                    77,
		AssetID:               input.AssetID,
		ActorUserID:           input.ActorUserID,
		OriginLocationID:      input.OriginLocationID,
		DestinationLocationID: input.DestinationLocationID,
		Kind:                  input.Kind,
		Notes:                 input.Notes,
		MovedAt:               time.Date(2025, 9, 3, 14, 30, 0, 0, time.UTC),
	}, nil
}

func (l *stubLedger) QueryByAsset(ctx context.Context, assetID int64) ([]models.MovementRecord, error) {
	panic("unimplemented")
}

func (l *stubLedger) List(ctx context.Context, params pagination.Params) ([]models.MovementRecord, error) {
	panic("unimplemented")
}

type stubAuditRecorder struct {
	action enums.AuditAction
	detail map[string]any
}

func (r *stubAuditRecorder) WithTx(tx *gorm.DB) audit.Recorder { return r }

func (r *stubAuditRecorder) Record(ctx context.Context, actorID *int64, action enums.AuditAction, detail map[string]any) (*models.AuditEntry, error) {
	r.action = action
	r.detail = detail
	payload, err := json.Marshal(detail)
	if err != nil {
		return nil, err
	}
	return &models.AuditEntry{ID: 1, ActorUserID: actorID, Action: action, Detail: payload}, nil
}

func (r *stubAuditRecorder) List(ctx context.Context, params pagination.Params) ([]models.AuditEntry, error) {
	panic("unimplemented")
}
