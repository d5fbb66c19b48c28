package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/models"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/repository"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/service"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/utils"
)

type testEnv struct {
	db       *gorm.DB
	validate *validator.Validate
	activity service.ActivityService
	loops    service.LoopService
	users    service.AdminUserService
	settings service.SettingsService
	auth     service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Loop{}, &models.ActivityLog{}, &models.Notification{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	activity := service.NewActivityService(repository.NewActivityLogRepository(db), zerolog.Nop())
	loops := service.NewLoopService(repository.NewLoopRepository(db), activity, nil, validate, nil, time.Minute, zerolog.Nop())
	users := service.NewAdminUserService(repository.NewUserRepository(db), activity, validate, bcrypt.MinCost, zerolog.Nop())
	settings := service.NewSettingsService(repository.NewUserRepository(db), activity, validate, zerolog.Nop())
	auth := service.NewAuthService(repository.NewUserRepository(db), activity, validate, "test-secret", time.Hour, bcrypt.MinCost, zerolog.Nop())

	return &testEnv{db: db, validate: validate, activity: activity, loops: loops, users: users, settings: settings, auth: auth}
}

func (e *testEnv) seedUser(t *testing.T, name, email, role string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		Name:              name,
		Email:             email,
		Password:          string(hash),
		Role:              role,
		NotifyNewLoop:     true,
		NotifyUpdatedLoop: true,
	}
	require.NoError(t, e.db.Create(&user).Error)
	return user
}

// authAs simulates the JWT middleware by injecting the caller's identity.
func authAs(user models.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", user.ID)
		c.Locals("user_role", user.Role)
		c.Locals("user_name", user.Name)
		return c.Next()
	}
}

func decodeResponse(t *testing.T, resp *http.Response) utils.APIResponse {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope utils.APIResponse
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope
}
