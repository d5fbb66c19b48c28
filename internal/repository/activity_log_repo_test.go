package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/models"
)

func TestActivityLogRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityLogRepository(db)
	ctx := context.Background()

	admin := models.User{Name: "Admin User", Email: "admin@example.com", Password: "x", Role: models.RoleAdmin}
	agent := models.User{Name: "Agent Smith", Email: "agent@example.com", Password: "x", Role: models.RoleAgent}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&agent).Error)

	now := time.Now()
	entries := []models.ActivityLog{
		{UserID: admin.ID, ActionType: models.ActionLogin, Description: "User logged in", IPAddress: "10.0.0.1", CreatedAt: now.Add(-48 * time.Hour)},
		{UserID: agent.ID, ActionType: models.ActionLogin, Description: "User logged in", IPAddress: "10.0.0.2", CreatedAt: now.Add(-2 * time.Hour)},
		{UserID: agent.ID, ActionType: models.ActionLoopCreated, Description: "Created loop at 12 Main St", IPAddress: "10.0.0.2", CreatedAt: now.Add(-1 * time.Hour)},
	}
	for i := range entries {
		require.NoError(t, db.Create(&entries[i]).Error)
	}

	all, err := repo.List(ctx, ActivityLogFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "Created loop at 12 Main St", all[0].Description, "default order is created_at desc")
	require.Equal(t, "Agent Smith", all[0].UserName, "rows carry joined actor identity")

	byActor, err := repo.List(ctx, ActivityLogFilter{ActorID: ptrUint(agent.ID)})
	require.NoError(t, err)
	require.Len(t, byActor, 2)

	// Adding a filter never grows the result set.
	narrowed, err := repo.List(ctx, ActivityLogFilter{ActorID: ptrUint(agent.ID), ActionType: models.ActionLogin})
	require.NoError(t, err)
	require.LessOrEqual(t, len(narrowed), len(byActor))
	require.Len(t, narrowed, 1)

	unknown, err := repo.List(ctx, ActivityLogFilter{ActionType: "NO_SUCH_ACTION"})
	require.NoError(t, err)
	require.Empty(t, unknown, "unknown action kind matches nothing")

	search, err := repo.List(ctx, ActivityLogFilter{Search: "main st"})
	require.NoError(t, err)
	require.Len(t, search, 1)

	limited, err := repo.List(ctx, ActivityLogFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
}

func TestActivityLogRepositoryDateBoundsInclusive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityLogRepository(db)
	ctx := context.Background()

	user := models.User{Name: "Agent", Email: "a@example.com", Password: "x", Role: models.RoleAgent}
	require.NoError(t, db.Create(&user).Error)

	day := time.Date(2024, 1, 15, 13, 30, 0, 0, time.UTC)
	entry := models.ActivityLog{UserID: user.ID, ActionType: models.ActionLogin, Description: "User logged in", CreatedAt: day}
	require.NoError(t, db.Create(&entry).Error)

	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	rows, err := repo.List(ctx, ActivityLogFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, rows, 1, "end date bound is inclusive for the whole day")

	before := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)
	rows, err = repo.List(ctx, ActivityLogFilter{StartDate: &before, EndDate: &before})
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestActivityLogRepositoryStatsIgnoreFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityLogRepository(db)
	ctx := context.Background()

	user := models.User{Name: "Agent", Email: "a@example.com", Password: "x", Role: models.RoleAgent}
	require.NoError(t, db.Create(&user).Error)

	now := time.Now()
	entries := []models.ActivityLog{
		{UserID: user.ID, ActionType: models.ActionLogin, Description: "User logged in", CreatedAt: now.Add(-30 * time.Minute)},
		{UserID: user.ID, ActionType: models.ActionLoopCreated, Description: "Created loop", CreatedAt: now.Add(-3 * 24 * time.Hour)},
		{UserID: user.ID, ActionType: models.ActionLogin, Description: "User logged in", CreatedAt: now.Add(-10 * 24 * time.Hour)},
	}
	for i := range entries {
		require.NoError(t, db.Create(&entries[i]).Error)
	}

	stats, err := repo.Stats(ctx, nil, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Today)
	require.Equal(t, int64(2), stats.ThisWeek)
	require.Equal(t, int64(2), stats.TotalLogins)
	require.Equal(t, int64(3), stats.TotalActivities)

	// Stats are a separate query: filtering the listing does not move them.
	rows, err := repo.List(ctx, ActivityLogFilter{ActionType: models.ActionLoopCreated})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	again, err := repo.Stats(ctx, nil, now)
	require.NoError(t, err)
	require.Equal(t, stats, again)
}

func TestActivityLogRepositoryUserSummary(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityLogRepository(db)
	ctx := context.Background()

	alice := models.User{Name: "Alice", Email: "alice@example.com", Password: "x", Role: models.RoleAgent}
	bob := models.User{Name: "Bob", Email: "bob@example.com", Password: "x", Role: models.RoleAgent}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	require.NoError(t, db.Create(&models.ActivityLog{UserID: alice.ID, ActionType: models.ActionLogin, Description: "User logged in", CreatedAt: time.Now()}).Error)
	require.NoError(t, db.Create(&models.ActivityLog{UserID: alice.ID, ActionType: models.ActionLoopCreated, Description: "Created loop", CreatedAt: time.Now()}).Error)

	summaries, err := repo.UserSummary(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	require.Equal(t, alice.ID, summaries[0].UserID)
	require.Equal(t, int64(2), summaries[0].TotalActions)
	require.Equal(t, int64(1), summaries[0].LoginCount)
	require.NotNil(t, summaries[0].LastActivity)

	require.Equal(t, bob.ID, summaries[1].UserID)
	require.Equal(t, int64(0), summaries[1].TotalActions)
}
