package dto

import (
	"github.com/Coldz-21/real-estate-transaction-manager/internal/repository"
)

// ChangePasswordRequest updates a password. UserID zero targets the caller.
type ChangePasswordRequest struct {
	UserID      uint   `json:"userId"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// ActivityListRequest carries the optional activity log filters.
type ActivityListRequest struct {
	ActorID    uint
	ActionType string
	StartDate  string
	EndDate    string
	Search     string
	Limit      int
	Sort       string
	Order      string
}

// ActivityListResponse pairs filtered rows with scope-wide statistics. The
// stats deliberately ignore the row filters so dashboard cards stay put while
// the table narrows.
type ActivityListResponse struct {
	Logs  []repository.ActivityLogRow `json:"logs"`
	Stats repository.ActivityStats    `json:"stats"`
	Count int                         `json:"count"`
}

// UserActivitySummaryResponse wraps the per-user activity overview.
type UserActivitySummaryResponse struct {
	UserActivity []repository.UserActivitySummary `json:"userActivity"`
}

// UserListResponse wraps the admin user listing.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
}
