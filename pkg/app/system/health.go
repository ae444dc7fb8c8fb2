package system

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"

	checkTimeout = 3 * time.Second
)

type HealthReport struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

//go:generate mockery --name=HealthChecker --dir=. --output=./mocks --filename=health_checker_mock.go --case=underscore --with-expecter

type HealthChecker interface {
	Check(ctx context.Context) HealthReport
}

// Pinger is the connectivity probe each backing service exposes.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthChecker struct {
	db     Pinger
	cache  Pinger
	lake   Pinger
	logger *logrus.Logger
}

func NewHealthChecker(
	db Pinger,
	c Pinger,
	lake Pinger,
	logger *logrus.Logger,
) HealthChecker {
	return &healthChecker{
		db:     db,
		cache:  c,
		lake:   lake,
		logger: logger,
	}
}

// Check probes each backing service. Overall status is healthy only when
// every probe passes, degraded while at least one dependency still answers,
// and unhealthy once every dependency is down.
func (h *healthChecker) Check(ctx context.Context) HealthReport {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	report := HealthReport{
		Services: make(map[string]string, 3),
	}

	failed := 0
	failed += h.probe(&report, "database", func() error { return h.db.Ping(ctx) })
	failed += h.probe(&report, "redis", func() error { return h.cache.Ping(ctx) })
	failed += h.probe(&report, "storage", func() error { return h.lake.Ping(ctx) })

	switch failed {
	case 0:
		report.Status = StatusHealthy
	case len(report.Services):
		report.Status = StatusUnhealthy
	default:
		report.Status = StatusDegraded
	}
	return report
}

func (h *healthChecker) probe(report *HealthReport, name string, fn func() error) int {
	if err := fn(); err != nil {
		h.logger.WithError(err).Warnf("health check failed: %s", name)
		report.Services[name] = StatusUnhealthy
		return 1
	}
	report.Services[name] = StatusHealthy
	return 0
}
