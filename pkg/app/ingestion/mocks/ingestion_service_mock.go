package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ragstack/ragserver/pkg/app/ingestion"
	"github.com/ragstack/ragserver/pkg/domain/document"
)

type Service struct {
	mock.Mock
}

func (m *Service) Ingest(ctx context.Context, input ingestion.Input) (*document.Document, error) {
	args := m.Called(ctx, input)
	doc, _ := args.Get(0).(*document.Document)
	return doc, args.Error(1)
}

func (m *Service) IngestBatch(ctx context.Context, inputs []ingestion.Input) ([]*document.Document, error) {
	args := m.Called(ctx, inputs)
	docs, _ := args.Get(0).([]*document.Document)
	return docs, args.Error(1)
}

func (m *Service) Reingest(ctx context.Context, documentID string) (*document.Document, error) {
	args := m.Called(ctx, documentID)
	doc, _ := args.Get(0).(*document.Document)
	return doc, args.Error(1)
}

func (m *Service) Delete(ctx context.Context, documentID string) error {
	args := m.Called(ctx, documentID)
	return args.Error(0)
}

func (m *Service) UpdateMetadata(
	ctx context.Context,
	documentID string,
	title, author, sourceURL string,
	tags []string,
) (*document.Document, error) {
	args := m.Called(ctx, documentID, title, author, sourceURL, tags)
	doc, _ := args.Get(0).(*document.Document)
	return doc, args.Error(1)
}
