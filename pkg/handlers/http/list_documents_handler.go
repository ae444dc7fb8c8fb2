package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/ragstack/ragserver/pkg/domain/document"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type listDocumentsHandler struct {
	logger *logrus.Logger
	repo   document.Repository
}

func NewListDocumentsHandler(logger *logrus.Logger, repo document.Repository) Handler {
	return &listDocumentsHandler{
		logger: logger,
		repo:   repo,
	}
}

func (h *listDocumentsHandler) Handle(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	limit := c.QueryInt("limit", defaultPageSize)
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	docs, err := h.repo.List(c.Context(), offset, limit)
	if err != nil {
		h.logger.WithError(err).Error("failed to list documents")
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"documents": docs,
		"offset":    offset,
		"limit":     limit,
		"count":     len(docs),
	})
}
