package ingestion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ragstack/ragserver/pkg/app/chunker"
	"github.com/ragstack/ragserver/pkg/cache"
	"github.com/ragstack/ragserver/pkg/config"
	"github.com/ragstack/ragserver/pkg/domain/chunk"
	"github.com/ragstack/ragserver/pkg/domain/document"
	"github.com/ragstack/ragserver/pkg/domain/embedding"
	domainErrors "github.com/ragstack/ragserver/pkg/domain/errors"
	"github.com/ragstack/ragserver/pkg/domain/storage"
	"github.com/ragstack/ragserver/pkg/infra/prometheus"
)

const (
	SourceHTTP   = "http"
	SourceStream = "stream"
)

type Input struct {
	DocumentID string
	Filename   string
	Content    []byte
	Title      string
	Author     string
	SourceURL  string
	Tags       []string
	Source     string
}

//go:generate mockery --name=Service --dir=. --output=./mocks --filename=ingestion_service_mock.go --case=underscore --with-expecter

// Service owns the document lifecycle: ingesting content into the vector
// index and data lake, reprocessing it, and tearing it down again.
type Service interface {
	Ingest(ctx context.Context, input Input) (*document.Document, error)
	IngestBatch(ctx context.Context, inputs []Input) ([]*document.Document, error)
	Reingest(ctx context.Context, documentID string) (*document.Document, error)
	Delete(ctx context.Context, documentID string) error
	UpdateMetadata(ctx context.Context, documentID string, title, author, sourceURL string, tags []string) (*document.Document, error)
}

type service struct {
	documents  document.Repository
	vectorRepo embedding.VectorRepository
	embedder   embedding.Creator
	chunker    chunker.Chunker
	lake       storage.DataLake
	cache      *cache.Cache
	logger     *logrus.Logger
	cfg        config.ProcessingConfig
	embedCfg   config.EmbeddingConfig
}

func NewService(
	documents document.Repository,
	vectorRepo embedding.VectorRepository,
	embedder embedding.Creator,
	ch chunker.Chunker,
	lake storage.DataLake,
	c *cache.Cache,
	logger *logrus.Logger,
	cfg config.ProcessingConfig,
	embedCfg config.EmbeddingConfig,
) Service {
	return &service{
		documents:  documents,
		vectorRepo: vectorRepo,
		embedder:   embedder,
		chunker:    ch,
		lake:       lake,
		cache:      c,
		logger:     logger,
		cfg:        cfg,
		embedCfg:   embedCfg,
	}
}

func (s *service) Ingest(ctx context.Context, input Input) (*document.Document, error) {
	started := time.Now()
	source := input.Source
	if source == "" {
		source = SourceHTTP
	}

	if len(input.Content) == 0 {
		return nil, domainErrors.ErrEmptyDocument
	}
	maxBytes := int64(s.cfg.MaxFileSizeMB) * 1024 * 1024
	if int64(len(input.Content)) > maxBytes {
		return nil, domainErrors.ErrFileTooLarge
	}

	doc, isUpdate, err := s.prepareDocument(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.process(ctx, doc, input, isUpdate); err != nil {
		s.markFailed(ctx, doc, err)
		prometheus.DocumentsIngestedTotal.WithLabelValues(source, "error").Inc()
		return nil, err
	}

	prometheus.DocumentsIngestedTotal.WithLabelValues(source, "ok").Inc()
	prometheus.IngestionLatency.Observe(float64(time.Since(started).Milliseconds()))

	return doc, nil
}

// prepareDocument creates or refreshes the metadata row and moves it into the
// processing state.
func (s *service) prepareDocument(ctx context.Context, input Input) (*document.Document, bool, error) {
	if input.DocumentID != "" {
		existing, err := s.documents.Get(ctx, input.DocumentID)
		if err == nil {
			applyMetadata(existing, input)
			existing.Status = document.StatusProcessing
			existing.FileSize = int64(len(input.Content))
			existing.Error = ""
			if err := s.documents.Update(ctx, existing); err != nil {
				return nil, false, fmt.Errorf("failed to update document row: %w", err)
			}
			return existing, true, nil
		}
		if !errors.Is(err, domainErrors.ErrDocumentNotFound) {
			return nil, false, err
		}
	}

	doc := &document.Document{
		ID:       input.DocumentID,
		Filename: input.Filename,
		FileType: document.FileTypeFromExtension(filepath.Ext(input.Filename)),
		FileSize: int64(len(input.Content)),
		Status:   document.StatusProcessing,
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	applyMetadata(doc, input)

	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, false, fmt.Errorf("failed to create document row: %w", err)
	}
	return doc, false, nil
}

func applyMetadata(doc *document.Document, input Input) {
	if input.Filename != "" {
		doc.Filename = input.Filename
		doc.FileType = document.FileTypeFromExtension(filepath.Ext(input.Filename))
	}
	if input.Title != "" {
		doc.Title = input.Title
	}
	if input.Author != "" {
		doc.Author = input.Author
	}
	if input.SourceURL != "" {
		doc.SourceURL = input.SourceURL
	}
	if len(input.Tags) > 0 {
		doc.Tags = input.Tags
	}
}

// process runs the pipeline for one document: archive the raw payload, chunk,
// embed, index, promote the normalized text and complete the row. On updates
// the prior vectors are removed only after the new content is ready, and the
// deterministic chunk IDs make the final insert overwrite in place.
func (s *service) process(ctx context.Context, doc *document.Document, input Input, isUpdate bool) error {
	rawKey := doc.ID + "/" + doc.Filename
	if _, err := s.lake.Put(ctx, storage.ZoneRaw, rawKey, bytes.NewReader(input.Content), storage.PutObjectOptions{
		Size:        int64(len(input.Content)),
		ContentType: contentTypeFor(doc.FileType),
		Metadata:    map[string]string{"document_id": doc.ID},
	}); err != nil {
		return fmt.Errorf("failed to archive raw payload: %w", err)
	}
	doc.StorageKey = rawKey

	text := extractText(doc.FileType, input.Content)
	if strings.TrimSpace(text) == "" {
		return domainErrors.ErrEmptyDocument
	}

	chunks := s.chunker.Split(doc.ID, text, chunkMetadata(doc))
	if len(chunks) == 0 {
		return domainErrors.ErrEmptyDocument
	}

	if err := s.embedChunks(ctx, chunks); err != nil {
		return err
	}

	if isUpdate {
		if _, err := s.vectorRepo.DeleteByDocumentID(ctx, doc.ID); err != nil {
			return fmt.Errorf("failed to remove stale chunks: %w", err)
		}
	}

	if err := s.vectorRepo.Insert(ctx, chunks); err != nil {
		return fmt.Errorf("failed to index chunks: %w", err)
	}
	prometheus.ChunksIndexedTotal.Add(float64(len(chunks)))

	processedKey := doc.ID + "/content.txt"
	if _, err := s.lake.Put(ctx, storage.ZoneProcessed, processedKey, strings.NewReader(text), storage.PutObjectOptions{
		Size:        int64(len(text)),
		ContentType: "text/plain",
		Metadata:    map[string]string{"document_id": doc.ID},
	}); err != nil {
		s.logger.WithError(err).Warn("failed to write processed text to data lake")
	} else if _, err := s.lake.Promote(ctx, storage.ZoneProcessed, storage.ZoneCurated, processedKey); err != nil {
		s.logger.WithError(err).Warn("failed to promote text to curated zone")
	}

	doc.Status = document.StatusCompleted
	doc.ChunkCount = len(chunks)
	doc.Error = ""
	if err := s.documents.Update(ctx, doc); err != nil {
		return fmt.Errorf("failed to complete document row: %w", err)
	}

	s.invalidateQueryCache(ctx)
	return nil
}

// embedChunks fills in chunk embeddings with bounded concurrency.
func (s *service) embedChunks(ctx context.Context, chunks []chunk.Chunk) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency())

	for i := range chunks {
		i := i
		g.Go(func() error {
			emb, err := s.embedder.Generate(gCtx, chunks[i].Content)
			if err != nil {
				return fmt.Errorf("failed to embed chunk %s: %w", chunks[i].ID, err)
			}
			chunks[i].Embedding = emb.Value
			chunks[i].CreatedAt = emb.CreatedAt
			return nil
		})
	}

	return g.Wait()
}

func (s *service) concurrency() int {
	n := s.embedCfg.BatchSize
	if s.cfg.MaxConcurrent > 0 && s.cfg.MaxConcurrent < n {
		n = s.cfg.MaxConcurrent
	}
	if n <= 0 {
		n = 1
	}
	return n
}

func (s *service) IngestBatch(ctx context.Context, inputs []Input) ([]*document.Document, error) {
	docs := make([]*document.Document, len(inputs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxInt(s.cfg.MaxConcurrent, 1))

	for i := range inputs {
		i := i
		g.Go(func() error {
			doc, err := s.Ingest(gCtx, inputs[i])
			if err != nil {
				return fmt.Errorf("document %q: %w", inputs[i].Filename, err)
			}
			docs[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return docs, err
	}
	return docs, nil
}

// Reingest rebuilds a document's chunks from the raw payload retained in the
// data lake.
func (s *service) Reingest(ctx context.Context, documentID string) (*document.Document, error) {
	doc, err := s.documents.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.StorageKey == "" {
		return nil, fmt.Errorf("document %s has no retained payload", documentID)
	}

	reader, _, err := s.lake.Get(ctx, storage.ZoneRaw, doc.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load raw payload: %w", err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw payload: %w", err)
	}

	return s.Ingest(ctx, Input{
		DocumentID: doc.ID,
		Filename:   doc.Filename,
		Content:    content,
		Source:     SourceHTTP,
	})
}

// Delete removes a document everywhere: vector index first so stale passages
// stop matching immediately, then the metadata row, lake objects and cached
// answers.
func (s *service) Delete(ctx context.Context, documentID string) error {
	doc, err := s.documents.Get(ctx, documentID)
	if err != nil {
		return err
	}

	removed, err := s.vectorRepo.DeleteByDocumentID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to remove chunks: %w", err)
	}

	if err := s.documents.Delete(ctx, documentID); err != nil {
		return err
	}

	if doc.StorageKey != "" {
		if err := s.lake.Delete(ctx, storage.ZoneRaw, doc.StorageKey); err != nil {
			s.logger.WithError(err).Warn("failed to delete raw payload from data lake")
		}
	}
	if err := s.lake.Delete(ctx, storage.ZoneProcessed, documentID+"/content.txt"); err != nil {
		s.logger.WithError(err).Warn("failed to delete processed text from data lake")
	}
	if err := s.lake.Delete(ctx, storage.ZoneCurated, documentID+"/content.txt"); err != nil {
		s.logger.WithError(err).Warn("failed to delete curated text from data lake")
	}

	s.invalidateQueryCache(ctx)

	s.logger.WithFields(logrus.Fields{
		"document_id":    documentID,
		"chunks_removed": removed,
	}).Info("document deleted")

	return nil
}

func (s *service) UpdateMetadata(
	ctx context.Context,
	documentID string,
	title, author, sourceURL string,
	tags []string,
) (*document.Document, error) {
	doc, err := s.documents.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if title != "" {
		doc.Title = title
	}
	if author != "" {
		doc.Author = author
	}
	if sourceURL != "" {
		doc.SourceURL = sourceURL
	}
	if tags != nil {
		doc.Tags = tags
	}

	if err := s.documents.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.invalidateQueryCache(ctx)
	return doc, nil
}

func (s *service) markFailed(ctx context.Context, doc *document.Document, cause error) {
	doc.Status = document.StatusFailed
	doc.Error = cause.Error()
	if err := s.documents.Update(ctx, doc); err != nil {
		s.logger.WithError(err).Error("failed to mark document as failed")
	}
}

// invalidateQueryCache drops every cached answer; any document change can
// alter any query's result set.
func (s *service) invalidateQueryCache(ctx context.Context) {
	removed, err := s.cache.DeleteByPattern(ctx, fmt.Sprintf(cache.QueryKeyPattern, "*"))
	if err != nil {
		s.logger.WithError(err).Warn("failed to invalidate query cache")
		return
	}
	if removed > 0 {
		s.logger.WithField("entries", removed).Debug("query cache invalidated")
	}
}

func chunkMetadata(doc *document.Document) map[string]interface{} {
	meta := map[string]interface{}{
		"filename":  doc.Filename,
		"file_type": string(doc.FileType),
	}
	if doc.Title != "" {
		meta["title"] = doc.Title
	}
	if doc.Author != "" {
		meta["author"] = doc.Author
	}
	if len(doc.Tags) > 0 {
		meta["tags"] = []string(doc.Tags)
	}
	return meta
}

func contentTypeFor(t document.FileType) string {
	switch t {
	case document.FileTypePDF:
		return "application/pdf"
	case document.FileTypeHTML:
		return "text/html"
	case document.FileTypeCSV:
		return "text/csv"
	case document.FileTypeMd:
		return "text/markdown"
	default:
		return "text/plain"
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
