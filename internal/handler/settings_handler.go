package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/dto"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/service"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/utils"
)

// SettingsHandler exposes the per-user account settings endpoints.
type SettingsHandler struct {
	service service.SettingsService
	logger  zerolog.Logger
}

// NewSettingsHandler constructs the handler.
func NewSettingsHandler(service service.SettingsService, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		logger:  logger.With().Str("component", "settings_handler").Logger(),
	}
}

// Register attaches the settings routes.
func (h *SettingsHandler) Register(router fiber.Router) {
	router.Get("", h.get)
	router.Put("/notifications", h.updateNotifications)
}

func (h *SettingsHandler) get(c *fiber.Ctx) error {
	response, err := h.service.Get(c.Context(), userIDFromContext(c))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to load settings")
	}

	return utils.SendSuccess(c, "settings", response)
}

func (h *SettingsHandler) updateNotifications(c *fiber.Ctx) error {
	var payload dto.NotificationPreferencesRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.UpdateNotifications(c.Context(), userIDFromContext(c), payload, c.IP())
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to update settings")
	}

	return utils.SendSuccess(c, "settings updated", response)
}
