package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/dto"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/observability"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/service"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/utils"
)

// AdminUserHandler exposes the user management endpoints for administrators.
type AdminUserHandler struct {
	service service.AdminUserService
	logger  zerolog.Logger
}

// NewAdminUserHandler constructs the handler.
func NewAdminUserHandler(service service.AdminUserService, logger zerolog.Logger) *AdminUserHandler {
	return &AdminUserHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_user_handler").Logger(),
	}
}

// Register attaches the user management routes to the admin group.
func (h *AdminUserHandler) Register(router fiber.Router) {
	router.Get("/users", h.list)
	router.Put("/change-password", h.changePassword)
	router.Put("/users/:id/suspend", h.suspend)
	router.Put("/users/:id/unsuspend", h.unsuspend)
	router.Get("/export/users", h.exportUsers)
}

func (h *AdminUserHandler) list(c *fiber.Ctx) error {
	response, err := h.service.ListUsers(c.Context())
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to list users")
	}

	return utils.SendSuccess(c, "users", response)
}

func (h *AdminUserHandler) changePassword(c *fiber.Ctx) error {
	var payload dto.ChangePasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.ChangePassword(c.Context(), callerFromContext(c), payload, c.IP()); err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to change password")
	}

	return utils.SendSuccess(c, "password changed", nil)
}

func (h *AdminUserHandler) suspend(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	}

	response, err := h.service.Suspend(c.Context(), callerFromContext(c), id, c.IP())
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to suspend user")
	}

	return utils.SendSuccess(c, "user suspended", response)
}

func (h *AdminUserHandler) unsuspend(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	}

	response, err := h.service.Unsuspend(c.Context(), callerFromContext(c), id, c.IP())
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to unsuspend user")
	}

	return utils.SendSuccess(c, "user unsuspended", response)
}

func (h *AdminUserHandler) exportUsers(c *fiber.Ctx) error {
	file, err := h.service.ExportUsers(c.Context(), callerFromContext(c), c.Query("format", "csv"), c.IP())
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to export users")
	}

	observability.ExportDownloads().WithLabelValues("users", "csv").Inc()
	return sendFile(c, file)
}
