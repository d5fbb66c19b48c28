package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/dto"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/models"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/repository"
)

// AuthService authenticates users and issues access tokens.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest, ip string) (dto.AuthResponse, error)
	Register(ctx context.Context, req dto.RegisterRequest, ip string) (dto.UserResponse, error)
	Profile(ctx context.Context, userID uint) (dto.UserResponse, error)
}

type authService struct {
	users      repository.UserRepository
	activity   ActivityRecorder
	validator  *validator.Validate
	jwtSecret  string
	tokenTTL   time.Duration
	bcryptCost int
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAuthService constructs the authentication service.
func NewAuthService(users repository.UserRepository, activity ActivityRecorder, validate *validator.Validate, jwtSecret string, tokenTTL time.Duration, bcryptCost int, logger zerolog.Logger) AuthService {
	return &authService{
		users:      users,
		activity:   activity,
		validator:  validate,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		logger:     logger.With().Str("component", "auth_service").Logger(),
		now:        time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest, ip string) (dto.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AuthResponse{}, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	if user.Suspended {
		return dto.AuthResponse{}, ErrAccountSuspended
	}

	token, err := s.signToken(user)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("failed to sign token: %w", err)
	}

	s.recordBestEffort(ctx, ActivityEntry{
		UserID:      user.ID,
		ActionType:  models.ActionLogin,
		Description: fmt.Sprintf("User logged in: %s", user.Email),
		IPAddress:   ip,
	})

	return dto.AuthResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest, ip string) (dto.UserResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, err
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return dto.UserResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:              req.Name,
		Email:             req.Email,
		Password:          string(hashed),
		Role:              models.RoleAgent,
		NotifyNewLoop:     true,
		NotifyUpdatedLoop: true,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.recordBestEffort(ctx, ActivityEntry{
		UserID:      user.ID,
		ActionType:  models.ActionUserRegistered,
		Description: fmt.Sprintf("New account registered: %s", user.Email),
		IPAddress:   ip,
	})

	return dto.NewUserResponse(user), nil
}

func (s *authService) Profile(ctx context.Context, userID uint) (dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *authService) signToken(user models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"name": user.Name,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) recordBestEffort(ctx context.Context, entry ActivityEntry) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", entry.ActionType).Msg("activity logging failed")
	}
}
