package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/ragstack/ragserver/pkg/app/ingestion"
)

type deleteDocumentHandler struct {
	logger  *logrus.Logger
	service ingestion.Service
}

func NewDeleteDocumentHandler(logger *logrus.Logger, service ingestion.Service) Handler {
	return &deleteDocumentHandler{
		logger:  logger,
		service: service,
	}
}

func (h *deleteDocumentHandler) Handle(c *fiber.Ctx) error {
	id := c.Params("document_id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "document_id is required"})
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		h.logger.WithError(err).Error("failed to delete document")
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
