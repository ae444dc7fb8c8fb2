package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ragstack/ragserver/pkg/domain/document"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Create(ctx context.Context, doc *document.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *Repository) Get(ctx context.Context, id string) (*document.Document, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).(*document.Document)
	return doc, args.Error(1)
}

func (m *Repository) List(ctx context.Context, offset, limit int) ([]document.Document, error) {
	args := m.Called(ctx, offset, limit)
	docs, _ := args.Get(0).([]document.Document)
	return docs, args.Error(1)
}

func (m *Repository) Update(ctx context.Context, doc *document.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *Repository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Repository) CountByStatus(ctx context.Context) (map[document.Status]int64, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(map[document.Status]int64)
	return counts, args.Error(1)
}
