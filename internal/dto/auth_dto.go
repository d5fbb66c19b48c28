package dto

import (
	"time"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/models"
)

// LoginRequest carries the credentials for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest carries the payload for POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UserResponse exposes a user account without its password hash.
type UserResponse struct {
	ID                uint      `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Role              string    `json:"role"`
	NotifyNewLoop     bool      `json:"notify_new_loop"`
	NotifyUpdatedLoop bool      `json:"notify_updated_loop"`
	Suspended         bool      `json:"suspended"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewUserResponse builds a user DTO from a user model.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:                user.ID,
		Name:              user.Name,
		Email:             user.Email,
		Role:              user.Role,
		NotifyNewLoop:     user.NotifyNewLoop,
		NotifyUpdatedLoop: user.NotifyUpdatedLoop,
		Suspended:         user.Suspended,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}
}

// AuthResponse pairs a signed token with the authenticated user.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
