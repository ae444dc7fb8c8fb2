package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/ragstack/ragserver/pkg/app/ingestion"
)

type updateDocumentMetadataRequest struct {
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	SourceURL string   `json:"source_url"`
	Tags      []string `json:"tags"`
}

type updateDocumentMetadataHandler struct {
	logger  *logrus.Logger
	service ingestion.Service
}

func NewUpdateDocumentMetadataHandler(logger *logrus.Logger, service ingestion.Service) Handler {
	return &updateDocumentMetadataHandler{
		logger:  logger,
		service: service,
	}
}

func (h *updateDocumentMetadataHandler) Handle(c *fiber.Ctx) error {
	id := c.Params("document_id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "document_id is required"})
	}

	var req updateDocumentMetadataRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("failed to bind metadata update request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	doc, err := h.service.UpdateMetadata(c.Context(), id, req.Title, req.Author, req.SourceURL, req.Tags)
	if err != nil {
		h.logger.WithError(err).Error("failed to update document metadata")
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(doc)
}
