package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ragstack/ragserver/pkg/infra/prometheus"
)

// metricsMiddleware records request counts and latencies per route. The route
// pattern is used instead of the raw path to keep label cardinality bounded.
type metricsMiddleware struct{}

func NewMetricsMiddleware() Middleware {
	return &metricsMiddleware{}
}

func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		started := time.Now()

		err := c.Next()

		path := c.Route().Path
		method := c.Method()
		status := strconv.Itoa(c.Response().StatusCode())

		prometheus.HTTPRequestTotal.WithLabelValues(method, path, status).Inc()
		prometheus.HTTPRequestLatency.WithLabelValues(method, path).
			Observe(float64(time.Since(started).Milliseconds()))

		return err
	}
}
