package models

import "time"

// Asset is a tracked physical item. CurrentLocationID is never null once the
// asset exists and is only mutated by the relocation workflow or a direct
// corrective update.
type Asset struct {
	ID            int64  `gorm:"column:id;primaryKey;autoIncrement"`
	InventoryCode string `gorm:"column:inventory_code;size:50;not null;uniqueIndex"`
	SerialNumber  string `gorm:"column:serial_number;size:100;not null;uniqueIndex"`
	Brand         string `gorm:"column:brand;size:100;not null"`
	Model         string `gorm:"column:model;size:100;not null"`

	TypeID int64         `gorm:"column:type_id;not null"`
	Type   EquipmentType `gorm:"foreignKey:TypeID"`

	StatusID int64       `gorm:"column:status_id;not null"`
	Status   AssetStatus `gorm:"foreignKey:StatusID"`

	CurrentLocationID int64    `gorm:"column:current_location_id;not null"`
	CurrentLocation   Location `gorm:"foreignKey:CurrentLocationID"`

	RegisteredAt time.Time `gorm:"column:registered_at;autoCreateTime;index"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
