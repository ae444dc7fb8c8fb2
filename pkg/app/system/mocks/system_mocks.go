package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ragstack/ragserver/pkg/app/system"
)

type HealthChecker struct {
	mock.Mock
}

func (m *HealthChecker) Check(ctx context.Context) system.HealthReport {
	args := m.Called(ctx)
	report, _ := args.Get(0).(system.HealthReport)
	return report
}

type StatsProvider struct {
	mock.Mock
}

func (m *StatsProvider) Collect(ctx context.Context) (*system.Stats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*system.Stats)
	return stats, args.Error(1)
}
