package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/dto"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/export"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/models"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/policy"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/repository"
)

// AdminUserService implements the admin user-management operations.
type AdminUserService interface {
	ListUsers(ctx context.Context) (dto.UserListResponse, error)
	ChangePassword(ctx context.Context, caller policy.Caller, req dto.ChangePasswordRequest, ip string) error
	Suspend(ctx context.Context, caller policy.Caller, targetID uint, ip string) (dto.UserResponse, error)
	Unsuspend(ctx context.Context, caller policy.Caller, targetID uint, ip string) (dto.UserResponse, error)
	ExportUsers(ctx context.Context, caller policy.Caller, format string, ip string) (export.File, error)
}

type adminUserService struct {
	users      repository.UserRepository
	activity   ActivityRecorder
	validator  *validator.Validate
	bcryptCost int
	logger     zerolog.Logger
}

// NewAdminUserService constructs the admin user service.
func NewAdminUserService(users repository.UserRepository, activity ActivityRecorder, validate *validator.Validate, bcryptCost int, logger zerolog.Logger) AdminUserService {
	return &adminUserService{
		users:      users,
		activity:   activity,
		validator:  validate,
		bcryptCost: bcryptCost,
		logger:     logger.With().Str("component", "admin_user_service").Logger(),
	}
}

func (s *adminUserService) ListUsers(ctx context.Context) (dto.UserListResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return dto.UserListResponse{}, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}

	return dto.UserListResponse{Users: responses}, nil
}

// ChangePassword validates, authorizes, and only then writes: a rejected
// request leaves no store write and no audit entry behind.
func (s *adminUserService) ChangePassword(ctx context.Context, caller policy.Caller, req dto.ChangePasswordRequest, ip string) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	targetID := req.UserID
	if targetID == 0 {
		targetID = caller.ID
	}

	if err := policy.CanChangePassword(caller, targetID); err != nil {
		return err
	}

	target, err := s.findUser(ctx, targetID)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, targetID, string(hashed)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	description := "Changed own password"
	if targetID != caller.ID {
		description = fmt.Sprintf("Changed password for user: %s", target.Name)
	}

	s.recordBestEffort(ctx, ActivityEntry{
		UserID:      caller.ID,
		ActionType:  models.ActionPasswordChanged,
		Description: description,
		Metadata: map[string]interface{}{
			"targetUserId":   targetID,
			"targetUserName": target.Name,
		},
		IPAddress: ip,
	})

	return nil
}

func (s *adminUserService) Suspend(ctx context.Context, caller policy.Caller, targetID uint, ip string) (dto.UserResponse, error) {
	target, err := s.findUser(ctx, targetID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	if err := policy.CanSuspendUser(caller, target); err != nil {
		return dto.UserResponse{}, err
	}

	if err := s.users.SetSuspended(ctx, targetID, true); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}
	target.Suspended = true

	s.recordBestEffort(ctx, ActivityEntry{
		UserID:      caller.ID,
		ActionType:  models.ActionUserSuspended,
		Description: fmt.Sprintf("Suspended user: %s (%s)", target.Name, target.Email),
		Metadata: map[string]interface{}{
			"targetUserId":    targetID,
			"targetUserName":  target.Name,
			"targetUserEmail": target.Email,
		},
		IPAddress: ip,
	})

	return dto.NewUserResponse(target), nil
}

func (s *adminUserService) Unsuspend(ctx context.Context, caller policy.Caller, targetID uint, ip string) (dto.UserResponse, error) {
	if err := policy.CanUnsuspendUser(caller); err != nil {
		return dto.UserResponse{}, err
	}

	target, err := s.findUser(ctx, targetID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	if err := s.users.SetSuspended(ctx, targetID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}
	target.Suspended = false

	s.recordBestEffort(ctx, ActivityEntry{
		UserID:      caller.ID,
		ActionType:  models.ActionUserUnsuspended,
		Description: fmt.Sprintf("Unsuspended user: %s (%s)", target.Name, target.Email),
		Metadata: map[string]interface{}{
			"targetUserId":    targetID,
			"targetUserName":  target.Name,
			"targetUserEmail": target.Email,
		},
		IPAddress: ip,
	})

	return dto.NewUserResponse(target), nil
}

func (s *adminUserService) ExportUsers(ctx context.Context, caller policy.Caller, format string, ip string) (export.File, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	if format != "csv" {
		return export.File{}, ErrUnsupportedFormat
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return export.File{}, err
	}

	file := export.Users(users)

	s.recordBestEffort(ctx, ActivityEntry{
		UserID:      caller.ID,
		ActionType:  models.ActionExportData,
		Description: fmt.Sprintf("Exported user list as %s", strings.ToUpper(format)),
		Metadata: map[string]interface{}{
			"format":      format,
			"recordCount": len(users),
		},
		IPAddress: ip,
	})

	return file, nil
}

func (s *adminUserService) findUser(ctx context.Context, id uint) (models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *adminUserService) recordBestEffort(ctx context.Context, entry ActivityEntry) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", entry.ActionType).Msg("activity logging failed")
	}
}
