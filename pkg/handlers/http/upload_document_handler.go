package http

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/ragstack/ragserver/pkg/app/ingestion"
)

// uploadDocumentHandler ingests a document from a multipart form. The file
// goes in the "file" part; title, author, source_url and a comma-separated
// tags value ride alongside as ordinary form fields.
type uploadDocumentHandler struct {
	logger  *logrus.Logger
	service ingestion.Service
}

func NewUploadDocumentHandler(logger *logrus.Logger, service ingestion.Service) Handler {
	return &uploadDocumentHandler{
		logger:  logger,
		service: service,
	}
}

func (h *uploadDocumentHandler) Handle(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.logger.WithError(err).Error("missing file in upload request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.WithError(err).Error("failed to open uploaded file")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.logger.WithError(err).Error("failed to read uploaded file")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	input := ingestion.Input{
		Filename:  fileHeader.Filename,
		Content:   content,
		Title:     c.FormValue("title"),
		Author:    c.FormValue("author"),
		SourceURL: c.FormValue("source_url"),
		Source:    ingestion.SourceHTTP,
	}
	if tags := c.FormValue("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				input.Tags = append(input.Tags, tag)
			}
		}
	}

	doc, err := h.service.Ingest(c.Context(), input)
	if err != nil {
		h.logger.WithError(err).Error("failed to ingest uploaded document")
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(doc)
}
