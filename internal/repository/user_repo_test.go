package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/models"
)

func TestUserRepositoryCRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)

	user := models.User{Name: "Agent Smith", Email: "agent@example.com", Password: "hash", Role: models.RoleAgent}
	require.NoError(t, repo.Create(ctx, &user))
	require.NotZero(t, user.ID)

	byEmail, err := repo.FindByEmail(ctx, "agent@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, byEmail.ID)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.UpdatePassword(ctx, user.ID, "newhash"))
	updated, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "newhash", updated.Password)

	require.ErrorIs(t, repo.UpdatePassword(ctx, 9999, "x"), gorm.ErrRecordNotFound)

	require.NoError(t, repo.SetSuspended(ctx, user.ID, true))
	suspended, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, suspended.Suspended)
}

func TestUserRepositoryNotificationPrefs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := models.User{Name: "Agent", Email: "a@example.com", Password: "x", Role: models.RoleAgent, NotifyNewLoop: true, NotifyUpdatedLoop: true}
	require.NoError(t, repo.Create(ctx, &user))

	require.NoError(t, repo.UpdateNotificationPrefs(ctx, user.ID, false, true))
	updated, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, updated.NotifyNewLoop)
	require.True(t, updated.NotifyUpdatedLoop)
}

func TestUserRepositoryListNotifiableAdmins(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	admin := models.User{Name: "Admin", Email: "admin@example.com", Password: "x", Role: models.RoleAdmin, NotifyNewLoop: true}
	optedOut := models.User{Name: "Quiet Admin", Email: "quiet@example.com", Password: "x", Role: models.RoleAdmin, NotifyNewLoop: false}
	agent := models.User{Name: "Agent", Email: "agent@example.com", Password: "x", Role: models.RoleAgent, NotifyNewLoop: true}
	require.NoError(t, repo.Create(ctx, &admin))
	require.NoError(t, repo.Create(ctx, &optedOut))
	require.NoError(t, repo.Create(ctx, &agent))

	recipients, err := repo.ListNotifiableAdmins(ctx, models.NotificationNewLoop, agent.ID)
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	require.Equal(t, admin.ID, recipients[0].ID)

	// The acting admin never notifies themselves.
	none, err := repo.ListNotifiableAdmins(ctx, models.NotificationNewLoop, admin.ID)
	require.NoError(t, err)
	require.Empty(t, none)
}
