package models

import (
	"encoding/json"
	"time"

	"github.com/sca-hospital/activos-backend/pkg/enums"
)

// AuditEntry is an append-only record of a system action. ActorUserID is
// nullable so entries outlive deleted accounts. No update or delete path
// exists through the application.
type AuditEntry struct {
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`

	ActorUserID *int64 `gorm:"column:actor_user_id"`
	Actor       *User  `gorm:"foreignKey:ActorUserID"`

	Action enums.AuditAction `gorm:"column:action;type:audit_action_enum;not null;index"`
	Detail json.RawMessage   `gorm:"column:detail;type:jsonb"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index"`
}
