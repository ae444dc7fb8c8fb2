package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ragstack/ragserver/pkg/domain/embedding"
)

type Creator struct {
	mock.Mock
}

func (m *Creator) Generate(ctx context.Context, text string) (*embedding.Embedding, error) {
	args := m.Called(ctx, text)
	emb, _ := args.Get(0).(*embedding.Embedding)
	return emb, args.Error(1)
}

func (m *Creator) Dimension() int {
	args := m.Called()
	return args.Int(0)
}

func (m *Creator) ModelInfo() map[string]string {
	args := m.Called()
	info, _ := args.Get(0).(map[string]string)
	return info
}
