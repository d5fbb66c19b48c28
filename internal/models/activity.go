package models

import (
	"time"

	"gorm.io/datatypes"
)

// Action kinds recorded in the activity log. The set is open ended; these are
// the kinds the application itself emits.
const (
	ActionLogin           = "LOGIN"
	ActionLogout          = "LOGOUT"
	ActionUserRegistered  = "USER_REGISTERED"
	ActionLoopCreated     = "LOOP_CREATED"
	ActionLoopUpdated     = "LOOP_UPDATED"
	ActionLoopDeleted     = "LOOP_DELETED"
	ActionLoopArchived    = "LOOP_ARCHIVED"
	ActionPasswordChanged = "PASSWORD_CHANGED"
	ActionUserSuspended   = "USER_SUSPENDED"
	ActionUserUnsuspended = "USER_UNSUSPENDED"
	ActionExportData      = "EXPORT_DATA"
	ActionSettingsUpdated = "SETTINGS_UPDATED"
)

// ActivityLog is one append-only audit trail entry. Rows are never updated or
// deleted and must outlive the records they describe.
type ActivityLog struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	UserID      uint              `gorm:"not null;index" json:"user_id"`
	ActionType  string            `gorm:"size:64;not null;index" json:"action_type"`
	Description string            `gorm:"type:text;not null" json:"description"`
	Metadata    datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	IPAddress   string            `gorm:"size:64" json:"ip_address"`
	CreatedAt   time.Time         `gorm:"index" json:"created_at"`
}
