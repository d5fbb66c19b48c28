package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/config"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/models"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/repository"
)

func bootstrapConfig() config.Config {
	return config.Config{
		BcryptCost:             bcrypt.MinCost,
		BootstrapAdminName:     "Admin User",
		BootstrapAdminEmail:    "admin@nexusrealtync.co",
		BootstrapAdminPassword: "admin-secret",
		BootstrapAgentName:     "Agent User",
		BootstrapAgentEmail:    "agent@nexusrealtync.co",
		BootstrapAgentPassword: "agent-secret",
	}
}

func TestBootstrapServiceSeedsEmptyDatabase(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBootstrapService(repository.NewUserRepository(db), bootstrapConfig(), testLogger())

	require.NoError(t, svc.Run(context.Background()))

	var admin models.User
	require.NoError(t, db.Where("email = ?", "admin@nexusrealtync.co").First(&admin).Error)
	require.Equal(t, models.RoleAdmin, admin.Role)
	require.True(t, admin.NotifyNewLoop)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("admin-secret")))

	var agent models.User
	require.NoError(t, db.Where("email = ?", "agent@nexusrealtync.co").First(&agent).Error)
	require.Equal(t, models.RoleAgent, agent.Role)
}

func TestBootstrapServiceIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBootstrapService(repository.NewUserRepository(db), bootstrapConfig(), testLogger())

	require.NoError(t, svc.Run(context.Background()))
	require.NoError(t, svc.Run(context.Background()))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestBootstrapServiceSkipsPopulatedDatabase(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "Existing", "existing@example.com", "secret123", models.RoleAgent)
	svc := NewBootstrapService(repository.NewUserRepository(db), bootstrapConfig(), testLogger())

	require.NoError(t, svc.Run(context.Background()))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestBootstrapServiceGeneratesMissingPasswords(t *testing.T) {
	db := setupTestDB(t)
	cfg := bootstrapConfig()
	cfg.BootstrapAdminPassword = ""
	svc := NewBootstrapService(repository.NewUserRepository(db), cfg, testLogger())

	require.NoError(t, svc.Run(context.Background()))

	var admin models.User
	require.NoError(t, db.Where("email = ?", "admin@nexusrealtync.co").First(&admin).Error)
	require.Error(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("")))
}
