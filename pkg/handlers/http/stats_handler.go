package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/ragstack/ragserver/pkg/app/system"
)

type statsHandler struct {
	logger   *logrus.Logger
	provider system.StatsProvider
}

func NewStatsHandler(logger *logrus.Logger, provider system.StatsProvider) Handler {
	return &statsHandler{
		logger:   logger,
		provider: provider,
	}
}

func (h *statsHandler) Handle(c *fiber.Ctx) error {
	stats, err := h.provider.Collect(c.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to collect stats")
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}
