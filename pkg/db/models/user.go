package models

import "time"

// User is an acting identity. RoleID is nullable: an account can exist
// without an assigned role, in which case every authorization check denies.
type User struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Username     string `gorm:"column:username;size:150;not null;uniqueIndex"`
	FullName     string `gorm:"column:full_name;size:200;not null"`
	Email        string `gorm:"column:email;size:254"`
	PasswordHash string `gorm:"column:password_hash;size:255;not null"`
	IsActive     bool   `gorm:"column:is_active;not null;default:true"`

	RoleID *int64 `gorm:"column:role_id"`
	Role   *Role  `gorm:"foreignKey:RoleID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
