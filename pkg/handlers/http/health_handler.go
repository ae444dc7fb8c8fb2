package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ragstack/ragserver/pkg/app/system"
)

type healthHandler struct {
	checker system.HealthChecker
}

func NewHealthHandler(checker system.HealthChecker) Handler {
	return &healthHandler{checker: checker}
}

// Handle reports per-service health. A degraded report is still served with
// 200 so load balancer probes can distinguish degraded from down.
func (h *healthHandler) Handle(c *fiber.Ctx) error {
	report := h.checker.Check(c.Context())

	status := fiber.StatusOK
	if report.Status == system.StatusUnhealthy {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(report)
}
