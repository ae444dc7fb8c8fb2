package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ragstack/ragserver/pkg/cache"
	"github.com/ragstack/ragserver/pkg/config"
	"github.com/ragstack/ragserver/pkg/domain/embedding"
	domainErrors "github.com/ragstack/ragserver/pkg/domain/errors"
	"github.com/ragstack/ragserver/pkg/infra/prometheus"
)

const (
	maxQueryLength  = 1000
	maxResultsLimit = 20

	// fallbackAnswer is returned when no passage clears the similarity
	// threshold.
	fallbackAnswer = "I couldn't find relevant information to answer your question."
)

type Request struct {
	Query           string   `json:"query"`
	MaxResults      int      `json:"max_results"`
	Threshold       *float64 `json:"similarity_threshold"`
	IncludeMetadata *bool    `json:"include_metadata"`
	DocumentID      string   `json:"document_id"`
	Tags            []string `json:"tags"`
}

type Source struct {
	DocumentID string                 `json:"document_id"`
	ChunkIndex int                    `json:"chunk_index"`
	Content    string                 `json:"content"`
	Score      float64                `json:"score"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

type Response struct {
	Answer           string            `json:"answer"`
	Sources          []Source          `json:"sources"`
	Confidence       float64           `json:"confidence"`
	Cached           bool              `json:"cached"`
	ProcessingTimeMs int64             `json:"processing_time_ms"`
	Model            map[string]string `json:"model"`
}

//go:generate mockery --name=Service --dir=. --output=./mocks --filename=query_service_mock.go --case=underscore --with-expecter

// Service answers natural-language queries with passages retrieved from the
// vector index.
type Service interface {
	Query(ctx context.Context, req Request) (*Response, error)
}

type service struct {
	embedder   embedding.Creator
	vectorRepo embedding.VectorRepository
	cache      *cache.Cache
	logger     *logrus.Logger
	cfg        config.QueryConfig
}

func NewService(
	embedder embedding.Creator,
	vectorRepo embedding.VectorRepository,
	c *cache.Cache,
	logger *logrus.Logger,
	cfg config.QueryConfig,
) Service {
	return &service{
		embedder:   embedder,
		vectorRepo: vectorRepo,
		cache:      c,
		logger:     logger,
		cfg:        cfg,
	}
}

func (s *service) Query(ctx context.Context, req Request) (*Response, error) {
	started := time.Now()

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, domainErrors.ErrEmptyQuery
	}
	if len(query) > maxQueryLength {
		return nil, domainErrors.ErrQueryTooLong
	}

	limit := req.MaxResults
	if limit <= 0 {
		limit = s.cfg.MaxResults
	}
	if limit > maxResultsLimit {
		limit = maxResultsLimit
	}

	threshold := s.cfg.SimilarityThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("threshold must be between 0 and 1")
	}

	includeMetadata := true
	if req.IncludeMetadata != nil {
		includeMetadata = *req.IncludeMetadata
	}

	cacheKey := s.cacheKey(query, limit, threshold, req.DocumentID, req.Tags)

	if s.cfg.CacheEnabled {
		if cached := s.readCache(ctx, cacheKey); cached != nil {
			prometheus.QueryCacheHits.WithLabelValues("hit").Inc()
			prometheus.QueriesTotal.WithLabelValues("cached").Inc()
			cached.Cached = true
			cached.ProcessingTimeMs = time.Since(started).Milliseconds()
			if !includeMetadata {
				stripSourceMetadata(cached)
			}
			return cached, nil
		}
		prometheus.QueryCacheHits.WithLabelValues("miss").Inc()
	}

	emb, err := s.embedder.Generate(ctx, query)
	if err != nil {
		prometheus.QueriesTotal.WithLabelValues("error").Inc()
		s.logger.WithError(err).Error("failed to embed query")
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := s.vectorRepo.Search(ctx, emb, embedding.SearchOptions{
		Limit:      limit,
		Threshold:  threshold,
		DocumentID: req.DocumentID,
		Tags:       req.Tags,
	})
	if err != nil {
		prometheus.QueriesTotal.WithLabelValues("error").Inc()
		s.logger.WithError(err).Error("vector search failed")
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	resp := s.buildResponse(results)
	resp.ProcessingTimeMs = time.Since(started).Milliseconds()

	if s.cfg.CacheEnabled {
		s.writeCache(ctx, cacheKey, resp)
	}
	if !includeMetadata {
		stripSourceMetadata(resp)
	}

	prometheus.QueriesTotal.WithLabelValues("ok").Inc()
	prometheus.QueryLatency.Observe(float64(resp.ProcessingTimeMs))

	return resp, nil
}

// buildResponse assembles the answer from ranked passages. Confidence is the
// mean source score, zero when nothing matched.
func (s *service) buildResponse(results []embedding.SearchResult) *Response {
	resp := &Response{
		Sources: make([]Source, 0, len(results)),
		Model:   s.embedder.ModelInfo(),
	}

	if len(results) == 0 {
		resp.Answer = fallbackAnswer
		return resp
	}

	var scoreSum float64
	var answer strings.Builder
	for i, r := range results {
		resp.Sources = append(resp.Sources, Source{
			DocumentID: r.DocumentID,
			ChunkIndex: r.ChunkIndex,
			Content:    r.Content,
			Score:      r.Score,
			Metadata:   r.Metadata,
		})
		scoreSum += r.Score
		if i < 3 {
			if answer.Len() > 0 {
				answer.WriteString("\n\n")
			}
			answer.WriteString(r.Content)
		}
	}

	resp.Answer = answer.String()
	resp.Confidence = scoreSum / float64(len(results))
	return resp
}

// stripSourceMetadata drops per-source metadata from a response about to be
// served. The cache always stores the full shape.
func stripSourceMetadata(resp *Response) {
	for i := range resp.Sources {
		resp.Sources[i].Metadata = nil
	}
}

// cacheKey folds every parameter that changes the result set into the key so
// two queries differing only by limit or threshold never collide.
func (s *service) cacheKey(query string, limit int, threshold float64, documentID string, tags []string) string {
	parts := []string{
		query,
		strconv.Itoa(limit),
		strconv.FormatFloat(threshold, 'f', -1, 64),
		documentID,
		strings.Join(tags, ","),
	}
	return cache.QueryKey(parts...)
}

func (s *service) readCache(ctx context.Context, key string) *Response {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil
	}
	var resp Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		s.logger.WithError(err).Warn("failed to decode cached query response")
		return nil
	}
	return &resp
}

func (s *service) writeCache(ctx context.Context, key string, resp *Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.WithError(err).Warn("failed to encode query response for cache")
		return
	}
	ttl := time.Duration(s.cfg.CacheTTLSeconds) * time.Second
	if err := s.cache.Set(ctx, key, string(data), ttl); err != nil {
		s.logger.WithError(err).Warn("failed to cache query response")
	}
}
