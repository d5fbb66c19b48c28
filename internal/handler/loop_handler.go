package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/dto"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/observability"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/service"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/utils"
)

// LoopHandler exposes the transaction loop endpoints.
type LoopHandler struct {
	service service.LoopService
	logger  zerolog.Logger
}

// NewLoopHandler constructs the handler.
func NewLoopHandler(service service.LoopService, logger zerolog.Logger) *LoopHandler {
	return &LoopHandler{
		service: service,
		logger:  logger.With().Str("component", "loop_handler").Logger(),
	}
}

// Register attaches the loop routes. Literal segments are registered before
// the :id parameter so /stats and /closing never match as identifiers.
func (h *LoopHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/stats", h.stats)
	router.Get("/closing", h.closing)
	router.Get("/export/csv", h.exportCSV)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.remove)
	router.Put("/:id/archive", h.archive)
	router.Get("/:id/export/pdf", h.exportPDF)
}

func (h *LoopHandler) list(c *fiber.Ctx) error {
	req, err := loopListRequestFromQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.List(c.Context(), callerFromContext(c), req)
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to list loops")
	}

	return utils.SendSuccess(c, "loops", response)
}

func (h *LoopHandler) create(c *fiber.Ctx) error {
	var payload dto.LoopCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Create(c.Context(), callerFromContext(c), userNameFromContext(c), payload, c.IP())
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to create loop")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "loop created", response)
}

func (h *LoopHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid loop id")
	}

	response, err := h.service.Get(c.Context(), callerFromContext(c), id)
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to load loop")
	}

	return utils.SendSuccess(c, "loop", response)
}

func (h *LoopHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid loop id")
	}

	var payload dto.LoopUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Update(c.Context(), callerFromContext(c), userNameFromContext(c), id, payload, c.IP())
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to update loop")
	}

	return utils.SendSuccess(c, "loop updated", response)
}

func (h *LoopHandler) remove(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid loop id")
	}

	if err := h.service.Delete(c.Context(), callerFromContext(c), userNameFromContext(c), id, c.IP()); err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to delete loop")
	}

	return utils.SendSuccess(c, "loop deleted", nil)
}

func (h *LoopHandler) archive(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid loop id")
	}

	if err := h.service.Archive(c.Context(), callerFromContext(c), userNameFromContext(c), id, c.IP()); err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to archive loop")
	}

	return utils.SendSuccess(c, "loop archived", nil)
}

func (h *LoopHandler) closing(c *fiber.Ctx) error {
	response, err := h.service.Closing(c.Context(), callerFromContext(c))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to list closing loops")
	}

	return utils.SendSuccess(c, "closing loops", response)
}

func (h *LoopHandler) stats(c *fiber.Ctx) error {
	response, err := h.service.Stats(c.Context(), callerFromContext(c))
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to load loop stats")
	}

	return utils.SendSuccess(c, "loop stats", response)
}

func (h *LoopHandler) exportCSV(c *fiber.Ctx) error {
	req, err := loopListRequestFromQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := h.service.ExportCSV(c.Context(), callerFromContext(c), req, c.IP())
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to export loops")
	}

	observability.ExportDownloads().WithLabelValues("loops", "csv").Inc()
	return sendFile(c, file)
}

func (h *LoopHandler) exportPDF(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid loop id")
	}

	file, err := h.service.ExportPDF(c.Context(), callerFromContext(c), id, c.IP())
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to export loop")
	}

	observability.ExportDownloads().WithLabelValues("loops", "pdf").Inc()
	return sendFile(c, file)
}

func loopListRequestFromQuery(c *fiber.Ctx) (dto.LoopListRequest, error) {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return dto.LoopListRequest{}, errInvalidLimit
	}

	return dto.LoopListRequest{
		Status:          c.Query("status"),
		Type:            c.Query("type"),
		Search:          c.Query("search"),
		Sort:            c.Query("sort"),
		Order:           c.Query("order"),
		Limit:           limit,
		IncludeArchived: c.QueryBool("include_archived"),
	}, nil
}
