package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/dto"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/models"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/repository"
)

// SettingsService manages a user's own account settings.
type SettingsService interface {
	Get(ctx context.Context, userID uint) (dto.SettingsResponse, error)
	UpdateNotifications(ctx context.Context, userID uint, req dto.NotificationPreferencesRequest, ip string) (dto.SettingsResponse, error)
}

type settingsService struct {
	users     repository.UserRepository
	activity  ActivityRecorder
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSettingsService constructs the settings service.
func NewSettingsService(users repository.UserRepository, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) SettingsService {
	return &settingsService{
		users:     users,
		activity:  activity,
		validator: validate,
		logger:    logger.With().Str("component", "settings_service").Logger(),
	}
}

func (s *settingsService) Get(ctx context.Context, userID uint) (dto.SettingsResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SettingsResponse{}, ErrUserNotFound
		}
		return dto.SettingsResponse{}, err
	}

	return dto.NewSettingsResponse(user), nil
}

func (s *settingsService) UpdateNotifications(ctx context.Context, userID uint, req dto.NotificationPreferencesRequest, ip string) (dto.SettingsResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.SettingsResponse{}, err
	}

	if err := s.users.UpdateNotificationPrefs(ctx, userID, *req.NotifyNewLoop, *req.NotifyUpdatedLoop); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SettingsResponse{}, ErrUserNotFound
		}
		return dto.SettingsResponse{}, err
	}

	if s.activity != nil {
		if err := s.activity.Record(ctx, ActivityEntry{
			UserID:      userID,
			ActionType:  models.ActionSettingsUpdated,
			Description: "Updated notification preferences",
			Metadata: map[string]interface{}{
				"notify_new_loop":     *req.NotifyNewLoop,
				"notify_updated_loop": *req.NotifyUpdatedLoop,
			},
			IPAddress: ip,
		}); err != nil {
			s.logger.Warn().Err(err).Msg("activity logging failed")
		}
	}

	return dto.SettingsResponse{
		NotifyNewLoop:     *req.NotifyNewLoop,
		NotifyUpdatedLoop: *req.NotifyUpdatedLoop,
	}, nil
}
