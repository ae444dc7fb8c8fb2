package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/ragstack/ragserver/pkg/app/ingestion"
)

// reingestDocumentHandler rebuilds a document's index entries from the raw
// payload retained in the data lake. Useful after chunking or embedding
// configuration changes.
type reingestDocumentHandler struct {
	logger  *logrus.Logger
	service ingestion.Service
}

func NewReingestDocumentHandler(logger *logrus.Logger, service ingestion.Service) Handler {
	return &reingestDocumentHandler{
		logger:  logger,
		service: service,
	}
}

func (h *reingestDocumentHandler) Handle(c *fiber.Ctx) error {
	id := c.Params("document_id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "document_id is required"})
	}

	doc, err := h.service.Reingest(c.Context(), id)
	if err != nil {
		h.logger.WithError(err).Error("failed to reingest document")
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(doc)
}
