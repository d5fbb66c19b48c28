package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/config"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/models"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/repository"
)

// BootstrapService seeds the initial admin and agent accounts so a fresh
// deployment is usable without manual database edits.
type BootstrapService interface {
	Run(ctx context.Context) error
}

type bootstrapService struct {
	users      repository.UserRepository
	cfg        config.Config
	bcryptCost int
	logger     zerolog.Logger
}

// NewBootstrapService constructs the startup seeding service.
func NewBootstrapService(users repository.UserRepository, cfg config.Config, logger zerolog.Logger) BootstrapService {
	return &bootstrapService{
		users:      users,
		cfg:        cfg,
		bcryptCost: cfg.BcryptCost,
		logger:     logger.With().Str("component", "bootstrap_service").Logger(),
	}
}

// Run creates the default accounts when the users table is empty. It is a
// no-op on any later startup, so it is safe to call unconditionally.
func (s *bootstrapService) Run(ctx context.Context) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		s.logger.Debug().Int64("users", count).Msg("skipping bootstrap, users already exist")
		return nil
	}

	if err := s.createUser(ctx, s.cfg.BootstrapAdminName, s.cfg.BootstrapAdminEmail, s.cfg.BootstrapAdminPassword, models.RoleAdmin); err != nil {
		return err
	}
	if err := s.createUser(ctx, s.cfg.BootstrapAgentName, s.cfg.BootstrapAgentEmail, s.cfg.BootstrapAgentPassword, models.RoleAgent); err != nil {
		return err
	}

	return nil
}

func (s *bootstrapService) createUser(ctx context.Context, name, email, password, role string) error {
	if password == "" {
		password = uuid.NewString()
		s.logger.Warn().Str("email", email).Msg("no bootstrap password configured, generated a random one")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return err
	}

	user := models.User{
		Name:              name,
		Email:             email,
		Password:          string(hash),
		Role:              role,
		NotifyNewLoop:     true,
		NotifyUpdatedLoop: true,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return err
	}

	s.logger.Info().Str("email", email).Str("role", role).Msg("bootstrap account created")
	return nil
}
