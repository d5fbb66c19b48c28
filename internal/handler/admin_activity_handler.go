package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/dto"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/observability"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/service"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/utils"
)

// AdminActivityHandler exposes the activity log reporting endpoints.
type AdminActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewAdminActivityHandler constructs the handler.
func NewAdminActivityHandler(service service.ActivityService, logger zerolog.Logger) *AdminActivityHandler {
	return &AdminActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_activity_handler").Logger(),
	}
}

// Register attaches the activity log routes to the admin group.
func (h *AdminActivityHandler) Register(router fiber.Router) {
	router.Get("/activity-logs", h.list)
	router.Get("/users/activity", h.userSummary)
	router.Get("/export/activity-logs", h.export)
}

func (h *AdminActivityHandler) list(c *fiber.Ctx) error {
	req, err := activityListRequestFromQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.List(c.Context(), callerFromContext(c), req)
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to list activity logs")
	}

	return utils.SendSuccess(c, "activity logs", response)
}

func (h *AdminActivityHandler) userSummary(c *fiber.Ctx) error {
	summary, err := h.service.UserSummary(c.Context())
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to summarize user activity")
	}

	return utils.SendSuccess(c, "user activity", dto.UserActivitySummaryResponse{UserActivity: summary})
}

func (h *AdminActivityHandler) export(c *fiber.Ctx) error {
	req, err := activityListRequestFromQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := h.service.ExportCSV(c.Context(), callerFromContext(c), c.Query("format", "csv"), req, c.IP())
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to export activity logs")
	}

	observability.ExportDownloads().WithLabelValues("activity_logs", "csv").Inc()
	return sendFile(c, file)
}

func activityListRequestFromQuery(c *fiber.Ctx) (dto.ActivityListRequest, error) {
	actorID, err := parseQueryInt(c, "userId")
	if err != nil || actorID < 0 {
		return dto.ActivityListRequest{}, errInvalidUserFilter
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return dto.ActivityListRequest{}, errInvalidLimit
	}

	return dto.ActivityListRequest{
		ActorID:    uint(actorID),
		ActionType: c.Query("actionType"),
		StartDate:  c.Query("startDate"),
		EndDate:    c.Query("endDate"),
		Search:     c.Query("search"),
		Limit:      limit,
		Sort:       c.Query("sort"),
		Order:      c.Query("order"),
	}, nil
}
