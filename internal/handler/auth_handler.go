package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/dto"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/service"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/utils"
)

// AuthHandler exposes login, registration, and profile endpoints.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches the public auth routes. The profile route is attached
// separately behind the JWT middleware.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/login", h.login)
	router.Post("/register", h.register)
}

// RegisterProtected attaches routes that require an authenticated caller.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Get("/profile", h.profile)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Login(c.Context(), payload, c.IP())
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "login failed")
	}

	return utils.SendSuccess(c, "logged in", response)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Register(c.Context(), payload, c.IP())
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "registration failed")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "account created", response)
}

func (h *AuthHandler) profile(c *fiber.Ctx) error {
	response, err := h.service.Profile(c.Context(), userIDFromContext(c))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to load profile")
	}

	return utils.SendSuccess(c, "profile", response)
}
