package service

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/models"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Loop{}, &models.ActivityLog{}, &models.Notification{}))
	return db
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func seedUser(t *testing.T, db *gorm.DB, name, email, password, role string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		Name:              name,
		Email:             email,
		Password:          string(hash),
		Role:              role,
		NotifyNewLoop:     true,
		NotifyUpdatedLoop: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func newTestActivityService(t *testing.T, db *gorm.DB) ActivityService {
	t.Helper()
	return NewActivityService(repository.NewActivityLogRepository(db), testLogger())
}

func activityLogsFor(t *testing.T, db *gorm.DB, actionType string) []models.ActivityLog {
	t.Helper()
	var logs []models.ActivityLog
	require.NoError(t, db.Where("action_type = ?", actionType).Find(&logs).Error)
	return logs
}

func ptrString(v string) *string {
	return &v
}

func ptrFloat(v float64) *float64 {
	return &v
}
