package http

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/ragstack/ragserver/pkg/app/ingestion"
)

// maxBatchFiles caps how many files one batch upload may carry.
const maxBatchFiles = 50

// batchUploadDocumentsHandler ingests several documents from one multipart
// form; every file rides in a repeated "files" part.
type batchUploadDocumentsHandler struct {
	logger  *logrus.Logger
	service ingestion.Service
}

func NewBatchUploadDocumentsHandler(logger *logrus.Logger, service ingestion.Service) Handler {
	return &batchUploadDocumentsHandler{
		logger:  logger,
		service: service,
	}
}

func (h *batchUploadDocumentsHandler) Handle(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		h.logger.WithError(err).Error("invalid batch upload form")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "multipart form is required"})
	}

	files := form.File["files"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "at least one file is required"})
	}
	if len(files) > maxBatchFiles {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("maximum %d files per batch", maxBatchFiles),
		})
	}

	inputs := make([]ingestion.Input, 0, len(files))
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			h.logger.WithError(err).Errorf("failed to open uploaded file %q", fileHeader.Filename)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			h.logger.WithError(err).Errorf("failed to read uploaded file %q", fileHeader.Filename)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		inputs = append(inputs, ingestion.Input{
			Filename: fileHeader.Filename,
			Content:  content,
			Source:   ingestion.SourceHTTP,
		})
	}

	docs, err := h.service.IngestBatch(c.Context(), inputs)
	if err != nil {
		h.logger.WithError(err).Error("batch ingestion failed")
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"documents": docs,
		"count":     len(docs),
	})
}
