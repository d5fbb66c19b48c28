package models

import "time"

// Notification types emitted by loop mutations.
const (
	NotificationNewLoop     = "new_loop"
	NotificationUpdatedLoop = "updated_loop"
)

// Notification is an in-app message targeted at a single user.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Type      string    `gorm:"size:64;not null" json:"type"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
