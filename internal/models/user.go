package models

import "time"

// Role values assignable to a user account.
const (
	RoleAdmin = "admin"
	RoleAgent = "agent"
)

// User represents an authenticated account, either an agent or an administrator.
type User struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"size:255;not null" json:"name"`
	Email             string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password          string    `gorm:"size:255;not null" json:"-"`
	Role              string    `gorm:"size:32;not null;default:agent" json:"role"`
	NotifyNewLoop     bool      `gorm:"not null" json:"notify_new_loop"`
	NotifyUpdatedLoop bool      `gorm:"not null" json:"notify_updated_loop"`
	Suspended         bool      `gorm:"not null;default:false" json:"suspended"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the administrator role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
