package embedding

import (
	"context"

	"github.com/ragstack/ragserver/pkg/domain/chunk"
)

//go:generate mockery --name=VectorRepository --dir=. --output=./mocks --filename=vector_repository_mock.go --case=underscore --with-expecter

// VectorRepository is the chunk-level vector index. Search returns results in
// descending similarity order with scores already converted to [0,1] cosine
// similarity.
type VectorRepository interface {
	EnsureIndex(ctx context.Context) error
	Insert(ctx context.Context, chunks []chunk.Chunk) error
	Search(ctx context.Context, query *Embedding, opts SearchOptions) ([]SearchResult, error)
	DeleteByDocumentID(ctx context.Context, documentID string) (int, error)
	Count(ctx context.Context) (int64, error)
}

// SearchOptions narrows a similarity search.
type SearchOptions struct {
	Limit      int
	Threshold  float64
	DocumentID string
	Tags       []string
}
