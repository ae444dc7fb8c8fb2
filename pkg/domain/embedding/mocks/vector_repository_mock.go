package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ragstack/ragserver/pkg/domain/chunk"
	"github.com/ragstack/ragserver/pkg/domain/embedding"
)

type VectorRepository struct {
	mock.Mock
}

func (m *VectorRepository) EnsureIndex(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *VectorRepository) Insert(ctx context.Context, chunks []chunk.Chunk) error {
	args := m.Called(ctx, chunks)
	return args.Error(0)
}

func (m *VectorRepository) Search(
	ctx context.Context,
	query *embedding.Embedding,
	opts embedding.SearchOptions,
) ([]embedding.SearchResult, error) {
	args := m.Called(ctx, query, opts)
	results, _ := args.Get(0).([]embedding.SearchResult)
	return results, args.Error(1)
}

func (m *VectorRepository) DeleteByDocumentID(ctx context.Context, documentID string) (int, error) {
	args := m.Called(ctx, documentID)
	return args.Int(0), args.Error(1)
}

func (m *VectorRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	count, _ := args.Get(0).(int64)
	return count, args.Error(1)
}
