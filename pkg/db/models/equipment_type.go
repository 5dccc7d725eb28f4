package models

// EquipmentType classifies assets (monitor, workstation, infusion pump...).
type EquipmentType struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;size:100;not null;uniqueIndex"`
}
