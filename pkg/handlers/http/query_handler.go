package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/ragstack/ragserver/pkg/app/query"
)

type queryHandler struct {
	logger  *logrus.Logger
	service query.Service
}

func NewQueryHandler(logger *logrus.Logger, service query.Service) Handler {
	return &queryHandler{
		logger:  logger,
		service: service,
	}
}

func (h *queryHandler) Handle(c *fiber.Ctx) error {
	var req query.Request

	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("failed to bind query request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	resp, err := h.service.Query(c.Context(), req)
	if err != nil {
		h.logger.WithError(err).Error("failed to execute query")
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
