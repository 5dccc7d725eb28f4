package models

import "time"

// Location is a specific spot inside a department. The (name, department)
// pair is unique. Deletion is restricted while assets or movement history
// reference the row.
type Location struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;size:100;not null;uniqueIndex:idx_locations_name_department"`

	DepartmentID int64      `gorm:"column:department_id;not null;uniqueIndex:idx_locations_name_department"`
	Department   Department `gorm:"foreignKey:DepartmentID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
