package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/ragstack/ragserver/pkg/domain/document"
)

type getDocumentHandler struct {
	logger *logrus.Logger
	repo   document.Repository
}

func NewGetDocumentHandler(logger *logrus.Logger, repo document.Repository) Handler {
	return &getDocumentHandler{
		logger: logger,
		repo:   repo,
	}
}

func (h *getDocumentHandler) Handle(c *fiber.Ctx) error {
	id := c.Params("document_id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "document_id is required"})
	}

	doc, err := h.repo.Get(c.Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(doc)
}
