package models

// AssetStatus is the operational state of an asset (operational, in repair...).
type AssetStatus struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;size:50;not null;uniqueIndex"`
}
