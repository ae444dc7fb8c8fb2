package system_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/ragstack/ragserver/pkg/app/system"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestCheck_AllProbesPassing(t *testing.T) {
	checker := system.NewHealthChecker(stubPinger{}, stubPinger{}, stubPinger{}, quietLogger())

	report := checker.Check(context.Background())

	assert.Equal(t, system.StatusHealthy, report.Status)
	assert.Equal(t, system.StatusHealthy, report.Services["database"])
	assert.Equal(t, system.StatusHealthy, report.Services["redis"])
	assert.Equal(t, system.StatusHealthy, report.Services["storage"])
}

func TestCheck_SingleFailureDegrades(t *testing.T) {
	down := stubPinger{err: errors.New("connection refused")}
	checker := system.NewHealthChecker(stubPinger{}, down, stubPinger{}, quietLogger())

	report := checker.Check(context.Background())

	assert.Equal(t, system.StatusDegraded, report.Status)
	assert.Equal(t, system.StatusUnhealthy, report.Services["redis"])
	assert.Equal(t, system.StatusHealthy, report.Services["database"])
}

func TestCheck_AllFailuresUnhealthy(t *testing.T) {
	down := stubPinger{err: errors.New("connection refused")}
	checker := system.NewHealthChecker(down, down, down, quietLogger())

	report := checker.Check(context.Background())

	assert.Equal(t, system.StatusUnhealthy, report.Status)
	for name, status := range report.Services {
		assert.Equal(t, system.StatusUnhealthy, status, name)
	}
}
