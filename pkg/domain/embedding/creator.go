package embedding

import (
	"context"
	"errors"
)

var ErrProviderNonOKResponse = errors.New("embedding provider returned non-OK response")

//go:generate mockery --name=Creator --dir=. --output=./mocks --filename=embedding_creator_mock.go --case=underscore --with-expecter

// Creator turns text into an embedding vector.
type Creator interface {
	Generate(ctx context.Context, text string) (*Embedding, error)
	Dimension() int
	ModelInfo() map[string]string
}
