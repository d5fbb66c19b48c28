package utils_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/utils"
)

func performRequest(t *testing.T, app *fiber.App) (*http.Response, utils.APIResponse) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope utils.APIResponse
	require.NoError(t, json.Unmarshal(body, &envelope))
	return resp, envelope
}

func TestSendSuccessDefaultsMessage(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "", map[string]string{"hello": "world"})
	})

	resp, envelope := performRequest(t, app)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, envelope.Success)
	require.Equal(t, "success", envelope.Message)
	require.NotNil(t, envelope.Data)
}

func TestSendSuccessWithStatus(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "created", nil)
	})

	resp, envelope := performRequest(t, app)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, envelope.Success)
	require.Equal(t, "created", envelope.Message)
}

func TestSendError(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	})

	resp, envelope := performRequest(t, app)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.False(t, envelope.Success)
	require.Equal(t, "insufficient permissions", envelope.Message)
}
