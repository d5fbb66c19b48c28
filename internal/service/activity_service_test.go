package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/dto"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/models"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/policy"
)

func TestActivityServiceRecordMasksCredentials(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "Jane Agent", "jane@example.com", "secret123", models.RoleAgent)
	svc := newTestActivityService(t, db)

	err := svc.Record(context.Background(), ActivityEntry{
		UserID:      user.ID,
		ActionType:  "password_changed",
		Description: "Changed own password",
		Metadata: map[string]interface{}{
			"newPassword": "hunter2",
			"resetToken":  "abc123",
			"target":      "self",
		},
		IPAddress: "10.0.0.1",
	})
	require.NoError(t, err)

	logs := activityLogsFor(t, db, models.ActionPasswordChanged)
	require.Len(t, logs, 1)
	require.Equal(t, "***", logs[0].Metadata["newPassword"])
	require.Equal(t, "***", logs[0].Metadata["resetToken"])
	require.Equal(t, "self", logs[0].Metadata["target"])
}

func TestActivityServiceListScopesAgentsToOwnEntries(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "Admin", "admin@example.com", "secret123", models.RoleAdmin)
	agent := seedUser(t, db, "Agent", "agent@example.com", "secret123", models.RoleAgent)
	svc := newTestActivityService(t, db)

	ctx := context.Background()
	require.NoError(t, svc.Record(ctx, ActivityEntry{UserID: admin.ID, ActionType: models.ActionLogin, Description: "User logged in"}))
	require.NoError(t, svc.Record(ctx, ActivityEntry{UserID: agent.ID, ActionType: models.ActionLogin, Description: "User logged in"}))

	adminView, err := svc.List(ctx, policy.Caller{ID: admin.ID, Role: admin.Role}, dto.ActivityListRequest{})
	require.NoError(t, err)
	require.Equal(t, 2, adminView.Count)

	agentView, err := svc.List(ctx, policy.Caller{ID: agent.ID, Role: agent.Role}, dto.ActivityListRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, agentView.Count)
	require.Equal(t, agent.ID, agentView.Logs[0].UserID)
}

func TestActivityServiceListStatsIgnoreTableFilters(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "Admin", "admin@example.com", "secret123", models.RoleAdmin)
	svc := newTestActivityService(t, db)

	ctx := context.Background()
	require.NoError(t, svc.Record(ctx, ActivityEntry{UserID: admin.ID, ActionType: models.ActionLogin, Description: "User logged in"}))
	require.NoError(t, svc.Record(ctx, ActivityEntry{UserID: admin.ID, ActionType: models.ActionLoopCreated, Description: "Created purchase loop at 12 Main St"}))

	caller := policy.Caller{ID: admin.ID, Role: admin.Role}
	filtered, err := svc.List(ctx, caller, dto.ActivityListRequest{ActionType: models.ActionLogin})
	require.NoError(t, err)
	require.Equal(t, 1, filtered.Count)
	require.Equal(t, int64(2), filtered.Stats.TotalActivities)
	require.Equal(t, int64(1), filtered.Stats.TotalLogins)
}

func TestActivityServiceListRejectsMalformedDates(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "Admin", "admin@example.com", "secret123", models.RoleAdmin)
	svc := newTestActivityService(t, db)

	_, err := svc.List(context.Background(), policy.Caller{ID: admin.ID, Role: admin.Role}, dto.ActivityListRequest{StartDate: "not-a-date"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidDate))

	_, err = svc.List(context.Background(), policy.Caller{ID: admin.ID, Role: admin.Role}, dto.ActivityListRequest{EndDate: "2024/01/01"})
	require.True(t, errors.Is(err, ErrInvalidDate))
}

func TestActivityServiceExportRejectsUnknownFormat(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "Admin", "admin@example.com", "secret123", models.RoleAdmin)
	svc := newTestActivityService(t, db)

	_, err := svc.ExportCSV(context.Background(), policy.Caller{ID: admin.ID, Role: admin.Role}, "xlsx", dto.ActivityListRequest{}, "")
	require.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestActivityServiceExportLogsAuditEntry(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "Admin", "admin@example.com", "secret123", models.RoleAdmin)
	svc := newTestActivityService(t, db)

	file, err := svc.ExportCSV(context.Background(), policy.Caller{ID: admin.ID, Role: admin.Role}, "csv", dto.ActivityListRequest{}, "10.0.0.9")
	require.NoError(t, err)
	require.Equal(t, "activity-logs.csv", file.Name)
	require.Equal(t, "text/csv", file.ContentType)

	logs := activityLogsFor(t, db, models.ActionExportData)
	require.Len(t, logs, 1)
	require.Equal(t, "csv", logs[0].Metadata["format"])
	require.EqualValues(t, 0, logs[0].Metadata["recordCount"])
	require.Equal(t, "10.0.0.9", logs[0].IPAddress)
}
