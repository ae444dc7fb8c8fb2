package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	domainErrors "github.com/ragstack/ragserver/pkg/domain/errors"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrDocumentNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domainErrors.ErrFileTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, domainErrors.ErrEmptyQuery),
		errors.Is(err, domainErrors.ErrQueryTooLong),
		errors.Is(err, domainErrors.ErrEmptyDocument),
		errors.Is(err, domainErrors.ErrInvalidZone):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}
