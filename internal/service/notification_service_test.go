package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/models"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/repository"
)

func TestNotificationServiceLoopCreatedNotifiesOptedInAdmins(t *testing.T) {
	db := setupTestDB(t)
	actor := seedUser(t, db, "Jane Agent", "jane@example.com", "secret123", models.RoleAgent)
	recipient := seedUser(t, db, "Admin", "admin@example.com", "secret123", models.RoleAdmin)
	optedOut := seedUser(t, db, "Quiet Admin", "quiet@example.com", "secret123", models.RoleAdmin)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", optedOut.ID).Update("notify_new_loop", false).Error)

	svc := NewNotificationService(repository.NewNotificationRepository(db), repository.NewUserRepository(db), nil, "", nil, "", testLogger())

	svc.LoopCreated(context.Background(), actor.ID, actor.Name, models.Loop{
		Type:            models.LoopTypePurchase,
		PropertyAddress: "12 Main St",
	})

	var notifications []models.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	require.Equal(t, recipient.ID, notifications[0].UserID)
	require.Equal(t, models.NotificationNewLoop, notifications[0].Type)
	require.Equal(t, "Jane Agent created a new purchase loop at 12 Main St", notifications[0].Message)
}

func TestNotificationServiceExcludesActor(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "Admin", "admin@example.com", "secret123", models.RoleAdmin)

	svc := NewNotificationService(repository.NewNotificationRepository(db), repository.NewUserRepository(db), nil, "", nil, "", testLogger())

	svc.LoopUpdated(context.Background(), admin.ID, admin.Name, models.Loop{
		Type:            models.LoopTypeListing,
		PropertyAddress: "44 Oak Ave",
	})

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestNotificationServiceSanitizesMessages(t *testing.T) {
	db := setupTestDB(t)
	actor := seedUser(t, db, "Agent", "agent@example.com", "secret123", models.RoleAgent)
	seedUser(t, db, "Admin", "admin@example.com", "secret123", models.RoleAdmin)

	svc := NewNotificationService(repository.NewNotificationRepository(db), repository.NewUserRepository(db), nil, "", nil, "", testLogger())

	svc.LoopCreated(context.Background(), actor.ID, "<script>alert(1)</script>Agent", models.Loop{
		Type:            models.LoopTypePurchase,
		PropertyAddress: "12 Main St",
	})

	var notifications []models.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	require.NotContains(t, notifications[0].Message, "<script>")
}

func TestNotificationServiceSubscribeReceivesBroadcast(t *testing.T) {
	db := setupTestDB(t)
	actor := seedUser(t, db, "Agent", "agent@example.com", "secret123", models.RoleAgent)
	admin := seedUser(t, db, "Admin", "admin@example.com", "secret123", models.RoleAdmin)

	svc := NewNotificationService(repository.NewNotificationRepository(db), repository.NewUserRepository(db), nil, "", nil, "", testLogger())

	ch, cleanup := svc.Subscribe(admin.ID)
	defer cleanup()

	svc.LoopCreated(context.Background(), actor.ID, actor.Name, models.Loop{
		Type:            models.LoopTypePurchase,
		PropertyAddress: "12 Main St",
	})

	select {
	case notification := <-ch:
		require.Equal(t, admin.ID, notification.UserID)
		require.Equal(t, models.NotificationNewLoop, notification.Type)
	case <-time.After(time.Second):
		t.Fatal("expected a notification on the subscription channel")
	}
}

func TestNotificationServiceListAndMarkRead(t *testing.T) {
	db := setupTestDB(t)
	actor := seedUser(t, db, "Agent", "agent@example.com", "secret123", models.RoleAgent)
	admin := seedUser(t, db, "Admin", "admin@example.com", "secret123", models.RoleAdmin)

	svc := NewNotificationService(repository.NewNotificationRepository(db), repository.NewUserRepository(db), nil, "", nil, "", testLogger())

	svc.LoopCreated(context.Background(), actor.ID, actor.Name, models.Loop{
		Type:            models.LoopTypePurchase,
		PropertyAddress: "12 Main St",
	})

	listed, err := svc.List(context.Background(), admin.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.False(t, listed[0].Read)

	marked, err := svc.MarkRead(context.Background(), listed[0].ID, admin.ID)
	require.NoError(t, err)
	require.True(t, marked.Read)

	// Another user cannot mark someone else's notification.
	_, err = svc.MarkRead(context.Background(), listed[0].ID, actor.ID)
	require.Error(t, err)
}
