package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/dto"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/models"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/repository"
)

func TestSettingsServiceGet(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "Agent", "agent@example.com", "secret123", models.RoleAgent)
	svc := NewSettingsService(repository.NewUserRepository(db), newTestActivityService(t, db), testValidator(), testLogger())

	resp, err := svc.Get(context.Background(), user.ID)
	require.NoError(t, err)
	require.True(t, resp.NotifyNewLoop)
	require.True(t, resp.NotifyUpdatedLoop)
}

func TestSettingsServiceUpdateNotifications(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "Agent", "agent@example.com", "secret123", models.RoleAgent)
	svc := NewSettingsService(repository.NewUserRepository(db), newTestActivityService(t, db), testValidator(), testLogger())

	off := false
	on := true
	resp, err := svc.UpdateNotifications(context.Background(), user.ID, dto.NotificationPreferencesRequest{
		NotifyNewLoop:     &off,
		NotifyUpdatedLoop: &on,
	}, "10.0.0.2")
	require.NoError(t, err)
	require.False(t, resp.NotifyNewLoop)
	require.True(t, resp.NotifyUpdatedLoop)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.False(t, stored.NotifyNewLoop)
	require.True(t, stored.NotifyUpdatedLoop)

	logs := activityLogsFor(t, db, models.ActionSettingsUpdated)
	require.Len(t, logs, 1)
}

func TestSettingsServiceUpdateRequiresBothFlags(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "Agent", "agent@example.com", "secret123", models.RoleAgent)
	svc := NewSettingsService(repository.NewUserRepository(db), newTestActivityService(t, db), testValidator(), testLogger())

	off := false
	_, err := svc.UpdateNotifications(context.Background(), user.ID, dto.NotificationPreferencesRequest{NotifyNewLoop: &off}, "")
	require.Error(t, err)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.True(t, stored.NotifyNewLoop)
}
