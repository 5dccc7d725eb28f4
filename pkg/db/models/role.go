package models

// Role is a named role assignable to users. The authorization policy keys on
// the name, so rows here are effectively a fixed vocabulary.
type Role struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;size:100;not null;uniqueIndex"`
}
