package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ragstack/ragserver/pkg/domain/streaming"
)

type Publisher struct {
	mock.Mock
}

func (m *Publisher) Publish(ctx context.Context, topic string, event streaming.DocumentEvent) error {
	args := m.Called(ctx, topic, event)
	return args.Error(0)
}

func (m *Publisher) Close() {
	m.Called()
}
