package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ragstack/ragserver/pkg/app/query"
)

type Service struct {
	mock.Mock
}

func (m *Service) Query(ctx context.Context, req query.Request) (*query.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*query.Response)
	return resp, args.Error(1)
}
