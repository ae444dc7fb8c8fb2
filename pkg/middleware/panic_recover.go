package middleware

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type panicRecoverMiddleware struct {
	logger *logrus.Logger
}

func NewPanicRecoverMiddleware(logger *logrus.Logger) Middleware {
	return &panicRecoverMiddleware{logger: logger}
}

// Middleware converts a handler panic into a 500 carrying the request ID, so a
// crashing ingestion or query never drops the connection without a response.
func (m *panicRecoverMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				requestID := c.GetRespHeader(RequestIDHeader)
				m.logger.WithFields(logrus.Fields{
					"panic":      r,
					"request_id": requestID,
					"method":     c.Method(),
					"path":       c.Path(),
					"stack":      string(debug.Stack()),
				}).Error("request handler panicked")

				_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":      "internal server error",
					"request_id": requestID,
				})
			}
		}()

		return c.Next()
	}
}
