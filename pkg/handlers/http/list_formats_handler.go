package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ragstack/ragserver/pkg/domain/document"
)

type listFormatsHandler struct{}

func NewListFormatsHandler() Handler {
	return &listFormatsHandler{}
}

func (h *listFormatsHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"supported_formats": document.SupportedFileTypes,
	})
}
