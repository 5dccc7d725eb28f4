package models

import (
	"time"

	"github.com/sca-hospital/activos-backend/pkg/enums"
)

// MovementRecord is an immutable ledger entry describing one asset movement.
// Rows are created exactly once and never updated; ordering is by MovedAt
// with the serial id breaking ties.
type MovementRecord struct {
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`

	AssetID int64 `gorm:"column:asset_id;not null;index"`
	Asset   Asset `gorm:"foreignKey:AssetID"`

	ActorUserID int64 `gorm:"column:actor_user_id;not null"`
	Actor       User  `gorm:"foreignKey:ActorUserID"`

	OriginLocationID int64    `gorm:"column:origin_location_id;not null"`
	OriginLocation   Location `gorm:"foreignKey:OriginLocationID"`

	DestinationLocationID int64    `gorm:"column:destination_location_id;not null"`
	DestinationLocation   Location `gorm:"foreignKey:DestinationLocationID"`

	Kind  enums.MovementKind `gorm:"column:kind;type:movement_kind_enum;not null"`
	Notes string             `gorm:"column:notes;type:text"`

	MovedAt time.Time `gorm:"column:moved_at;autoCreateTime;index"`
}
