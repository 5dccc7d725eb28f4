package movements

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sca-hospital/activos-backend/pkg/db/models"
	"github.com/sca-hospital/activos-backend/pkg/enums"
	"github.com/sca-hospital/activos-backend/pkg/pagination"
)

func setupMovementsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	departments := `
CREATE TABLE IF NOT EXISTS departments (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  created_at DATETIME
);`
	locations := `
CREATE TABLE IF NOT EXISTS locations (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  department_id INTEGER NOT NULL,
  created_at DATETIME
);`
	users := `
CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT NOT NULL UNIQUE,
  full_name TEXT NOT NULL,
  email TEXT,
  password_hash TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  role_id INTEGER,
  created_at DATETIME,
  updated_at DATETIME
);`
	assets := `
CREATE TABLE IF NOT EXISTS assets (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  inventory_code TEXT NOT NULL UNIQUE,
  serial_number TEXT NOT NULL UNIQUE,
  brand TEXT NOT NULL,
  model TEXT NOT NULL,
  type_id INTEGER NOT NULL,
  status_id INTEGER NOT NULL,
  current_location_id INTEGER NOT NULL,
  registered_at DATETIME,
  updated_at DATETIME
);`
	records := `
CREATE TABLE IF NOT EXISTS movement_records (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  asset_id INTEGER NOT NULL,
  actor_user_id INTEGER NOT NULL,
  origin_location_id INTEGER NOT NULL,
  destination_location_id INTEGER NOT NULL,
  kind TEXT NOT NULL,
  notes TEXT,
  moved_at DATETIME
);`
	require.NoError(t, db.Exec(departments).Error)
	require.NoError(t, db.Exec(locations).Error)
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(assets).Error)
	require.NoError(t, db.Exec(records).Error)
	return db
}

func seedMovementFixtures(t *testing.T, db *gorm.DB) (*models.Asset, *models.User, *models.Location, *models.Location) {
	t.Helper()

	department := &models.Department{Name: "Radiology"}
	require.NoError(t, db.Create(department).Error)

	origin := &models.Location{Name: "Room 101", DepartmentID: department.ID}
	destination := &models.Location{Name: "Room 102", DepartmentID: department.ID}
	require.NoError(t, db.Create(origin).Error)
	require.NoError(t, db.Create(destination).Error)

	actor := &models.User{Username: "tech.jones", FullName: "Terry Jones", PasswordHash: "x"}
	require.NoError(t, db.Create(actor).Error)

	asset := &models.Asset{
		InventoryCode:     "INV-0001",
		SerialNumber:      "SN-0001",
		Brand:             "Siemens",
		Model:             "Mobilett",
		TypeID:            1,
		StatusID:          1,
		CurrentLocationID: origin.ID,
	}
	require.NoError(t, db.Create(asset).Error)

	return asset, actor, origin, destination
}

func appendRecord(t *testing.T, repo Repository, asset *models.Asset, actor *models.User, origin, destination *models.Location, movedAt time.Time) *models.MovementRecord {
	t.Helper()

	record := &models.MovementRecord{
		AssetID:               asset.ID,
		ActorUserID:           actor.ID,
		OriginLocationID:      origin.ID,
		DestinationLocationID: destination.ID,
		Kind:                  enums.MovementKindRelocation,
		MovedAt:               movedAt,
	}
	require.NoError(t, repo.Create(context.Background(), record))
	return record
}

func TestRepositoryListByAsset_ordering(t *testing.T) {
	db := setupMovementsTestDB(t)
	repo := NewRepository(db)
	asset, actor, origin, destination := seedMovementFixtures(t, db)

	base := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	oldest := appendRecord(t, repo, asset, actor, origin, destination, base)
	middle := appendRecord(t, repo, asset, actor, destination, origin, base.Add(time.Hour))
	// Same timestamp as middle; the serial id breaks the tie.
	tied := appendRecord(t, repo, asset, actor, origin, destination, base.Add(time.Hour))

	got, err := repo.ListByAsset(context.Background(), asset.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, tied.ID, got[0].ID)
	assert.Equal(t, middle.ID, got[1].ID)
	assert.Equal(t, oldest.ID, got[2].ID)

	assert.Equal(t, asset.InventoryCode, got[0].Asset.InventoryCode)
	assert.Equal(t, actor.Username, got[0].Actor.Username)
	assert.Equal(t, "Room 101", got[0].OriginLocation.Name)
	assert.Equal(t, "Radiology", got[0].OriginLocation.Department.Name)
}

func TestRepositoryList_cursorPagination(t *testing.T) {
	db := setupMovementsTestDB(t)
	repo := NewRepository(db)
	asset, actor, origin, destination := seedMovementFixtures(t, db)

	base := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	ids := make([]int64, 0, 5)
	for i := 0; i < 5; i++ {
		record := appendRecord(t, repo, asset, actor, origin, destination, base.Add(time.Duration(i)*time.Hour))
		ids = append(ids, record.ID)
	}

	// First page requests 2 rows; the buffered extra row signals a next page.
	first, err := repo.List(context.Background(), pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, ids[4], first[0].ID)
	assert.Equal(t, ids[3], first[1].ID)

	cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: first[1].MovedAt, ID: first[1].ID})
	second, err := repo.List(context.Background(), pagination.Params{Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, second, 3)
	assert.Equal(t, ids[2], second[0].ID)
	assert.Equal(t, ids[1], second[1].ID)
	assert.Equal(t, ids[0], second[2].ID)

	_, err = repo.List(context.Background(), pagination.Params{Cursor: "not-base64"})
	require.Error(t, err)
}
