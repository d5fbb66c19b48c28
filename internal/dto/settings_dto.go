package dto

import "github.com/Coldz-21/real-estate-transaction-manager/internal/models"

// NotificationPreferencesRequest updates a user's notification flags.
type NotificationPreferencesRequest struct {
	NotifyNewLoop     *bool `json:"notify_new_loop" validate:"required"`
	NotifyUpdatedLoop *bool `json:"notify_updated_loop" validate:"required"`
}

// SettingsResponse exposes the caller's account settings.
type SettingsResponse struct {
	NotifyNewLoop     bool `json:"notify_new_loop"`
	NotifyUpdatedLoop bool `json:"notify_updated_loop"`
}

// NewSettingsResponse builds a settings DTO from a user model.
func NewSettingsResponse(user models.User) SettingsResponse {
	return SettingsResponse{
		NotifyNewLoop:     user.NotifyNewLoop,
		NotifyUpdatedLoop: user.NotifyUpdatedLoop,
	}
}
