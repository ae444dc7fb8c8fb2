package query_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ragstack/ragserver/pkg/app/query"
	"github.com/ragstack/ragserver/pkg/cache"
	"github.com/ragstack/ragserver/pkg/config"
	"github.com/ragstack/ragserver/pkg/domain/embedding"
	"github.com/ragstack/ragserver/pkg/domain/embedding/mocks"
	domainErrors "github.com/ragstack/ragserver/pkg/domain/errors"
)

func newTestService(t *testing.T, embedder *mocks.Creator, vectorRepo *mocks.VectorRepository, cacheEnabled bool) query.Service {
	t.Helper()

	client, redisMock := redismock.NewClientMock()
	redisMock.MatchExpectationsInOrder(false)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return query.NewService(embedder, vectorRepo, cache.NewCacheWithClient(client), logger, config.QueryConfig{
		MaxResults:          5,
		SimilarityThreshold: 0.7,
		CacheEnabled:        cacheEnabled,
		CacheTTLSeconds:     3600,
	})
}

func testEmbedding() *embedding.Embedding {
	return &embedding.Embedding{
		Value:     []float64{0.1, 0.2, 0.3},
		CreatedAt: time.Now(),
	}
}

func TestQuery_EmptyQueryRejected(t *testing.T) {
	svc := newTestService(t, new(mocks.Creator), new(mocks.VectorRepository), false)

	_, err := svc.Query(context.Background(), query.Request{Query: "   "})

	assert.ErrorIs(t, err, domainErrors.ErrEmptyQuery)
}

func TestQuery_TooLongQueryRejected(t *testing.T) {
	svc := newTestService(t, new(mocks.Creator), new(mocks.VectorRepository), false)

	long := make([]byte, 5000)
	for i := range long {
		long[i] = 'a'
	}

	_, err := svc.Query(context.Background(), query.Request{Query: string(long)})

	assert.ErrorIs(t, err, domainErrors.ErrQueryTooLong)
}

func TestQuery_InvalidThresholdRejected(t *testing.T) {
	svc := newTestService(t, new(mocks.Creator), new(mocks.VectorRepository), false)

	bad := 1.5
	_, err := svc.Query(context.Background(), query.Request{Query: "hello", Threshold: &bad})

	assert.Error(t, err)
}

func TestQuery_ReturnsRankedSourcesWithMeanConfidence(t *testing.T) {
	embedder := new(mocks.Creator)
	vectorRepo := new(mocks.VectorRepository)

	embedder.On("Generate", mock.Anything, "what is raft").Return(testEmbedding(), nil)
	embedder.On("ModelInfo").Return(map[string]string{"provider": "local"})
	vectorRepo.On("Search", mock.Anything, mock.Anything, mock.MatchedBy(func(opts embedding.SearchOptions) bool {
		return opts.Limit == 5 && opts.Threshold == 0.7
	})).Return([]embedding.SearchResult{
		{DocumentID: "d1", ChunkIndex: 0, Content: "raft is a consensus protocol", Score: 0.9},
		{DocumentID: "d2", ChunkIndex: 3, Content: "raft elects a leader", Score: 0.8},
	}, nil)

	svc := newTestService(t, embedder, vectorRepo, false)

	resp, err := svc.Query(context.Background(), query.Request{Query: "what is raft"})

	require.NoError(t, err)
	assert.Len(t, resp.Sources, 2)
	assert.InDelta(t, 0.85, resp.Confidence, 1e-9)
	assert.Contains(t, resp.Answer, "raft is a consensus protocol")
	assert.False(t, resp.Cached)
	assert.Equal(t, "local", resp.Model["provider"])
}

func TestQuery_NoResultsReturnsFallbackAnswer(t *testing.T) {
	embedder := new(mocks.Creator)
	vectorRepo := new(mocks.VectorRepository)

	embedder.On("Generate", mock.Anything, mock.Anything).Return(testEmbedding(), nil)
	embedder.On("ModelInfo").Return(map[string]string{"provider": "local"})
	vectorRepo.On("Search", mock.Anything, mock.Anything, mock.Anything).
		Return([]embedding.SearchResult{}, nil)

	svc := newTestService(t, embedder, vectorRepo, false)

	resp, err := svc.Query(context.Background(), query.Request{Query: "anything at all"})

	require.NoError(t, err)
	assert.Empty(t, resp.Sources)
	assert.Zero(t, resp.Confidence)
	assert.Equal(t, "I couldn't find relevant information to answer your question.", resp.Answer)
}

func TestQuery_EmbedderFailureIsPropagated(t *testing.T) {
	embedder := new(mocks.Creator)
	vectorRepo := new(mocks.VectorRepository)

	embedder.On("Generate", mock.Anything, mock.Anything).
		Return(nil, errors.New("provider down"))

	svc := newTestService(t, embedder, vectorRepo, false)

	_, err := svc.Query(context.Background(), query.Request{Query: "hello"})

	assert.Error(t, err)
	vectorRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuery_IncludeMetadataFalseStripsSourceMetadata(t *testing.T) {
	embedder := new(mocks.Creator)
	vectorRepo := new(mocks.VectorRepository)

	embedder.On("Generate", mock.Anything, mock.Anything).Return(testEmbedding(), nil)
	embedder.On("ModelInfo").Return(map[string]string{"provider": "local"})
	vectorRepo.On("Search", mock.Anything, mock.Anything, mock.Anything).
		Return([]embedding.SearchResult{
			{DocumentID: "d1", Content: "passage", Score: 0.9, Metadata: map[string]interface{}{"title": "t"}},
		}, nil)

	svc := newTestService(t, embedder, vectorRepo, false)

	off := false
	resp, err := svc.Query(context.Background(), query.Request{Query: "hello", IncludeMetadata: &off})

	require.NoError(t, err)
	require.Len(t, resp.Sources, 1)
	assert.Nil(t, resp.Sources[0].Metadata)
}

func TestQuery_RequestLimitClamped(t *testing.T) {
	embedder := new(mocks.Creator)
	vectorRepo := new(mocks.VectorRepository)

	embedder.On("Generate", mock.Anything, mock.Anything).Return(testEmbedding(), nil)
	embedder.On("ModelInfo").Return(map[string]string{})
	vectorRepo.On("Search", mock.Anything, mock.Anything, mock.MatchedBy(func(opts embedding.SearchOptions) bool {
		return opts.Limit == 20
	})).Return([]embedding.SearchResult{}, nil)

	svc := newTestService(t, embedder, vectorRepo, false)

	_, err := svc.Query(context.Background(), query.Request{Query: "hello", MaxResults: 500})

	require.NoError(t, err)
	vectorRepo.AssertExpectations(t)
}
