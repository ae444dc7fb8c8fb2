package ingestion

import (
	"context"
	"errors"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"

	domainErrors "github.com/ragstack/ragserver/pkg/domain/errors"
	"github.com/ragstack/ragserver/pkg/domain/streaming"
	"github.com/ragstack/ragserver/pkg/infra/prometheus"
)

type eventMetadata struct {
	Title     string   `mapstructure:"title"`
	Author    string   `mapstructure:"author"`
	SourceURL string   `mapstructure:"source_url"`
	Tags      []string `mapstructure:"tags"`
}

func decodeEventMetadata(raw map[string]interface{}) eventMetadata {
	var meta eventMetadata
	if err := mapstructure.Decode(raw, &meta); err != nil {
		return eventMetadata{}
	}
	return meta
}

// EventHandler applies document lifecycle events from the stream to the
// ingestion pipeline. Deletion of an unknown document is treated as done, so
// replayed events stay idempotent.
type EventHandler struct {
	service Service
	logger  *logrus.Logger
}

func NewEventHandler(service Service, logger *logrus.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

func (h *EventHandler) HandleDocumentCreated(ctx context.Context, event streaming.DocumentEvent) error {
	return h.ingestFromEvent(ctx, streaming.TopicDocuments, event)
}

func (h *EventHandler) HandleDocumentUpdated(ctx context.Context, event streaming.DocumentEvent) error {
	return h.ingestFromEvent(ctx, streaming.TopicUpdates, event)
}

func (h *EventHandler) HandleDocumentDeleted(ctx context.Context, event streaming.DocumentEvent) error {
	err := h.service.Delete(ctx, event.DocumentID)
	if errors.Is(err, domainErrors.ErrDocumentNotFound) {
		h.logger.WithField("document_id", event.DocumentID).Debug("deletion event for unknown document")
		err = nil
	}
	h.observe(streaming.TopicDeletions, err)
	return err
}

func (h *EventHandler) HandleMetadataUpdated(ctx context.Context, event streaming.DocumentEvent) error {
	meta := decodeEventMetadata(event.Metadata)

	_, err := h.service.UpdateMetadata(ctx, event.DocumentID, meta.Title, meta.Author, meta.SourceURL, meta.Tags)
	h.observe(streaming.TopicMetadataUpdates, err)
	return err
}

func (h *EventHandler) ingestFromEvent(ctx context.Context, topic string, event streaming.DocumentEvent) error {
	filename := event.Filename
	if filename == "" {
		filename = event.DocumentID + ".txt"
	}

	meta := decodeEventMetadata(event.Metadata)

	_, err := h.service.Ingest(ctx, Input{
		DocumentID: event.DocumentID,
		Filename:   filename,
		Content:    []byte(event.Content),
		Title:      meta.Title,
		Author:     meta.Author,
		SourceURL:  meta.SourceURL,
		Tags:       meta.Tags,
		Source:     SourceStream,
	})
	h.observe(topic, err)
	return err
}

func (h *EventHandler) observe(topic string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	prometheus.StreamEventsTotal.WithLabelValues(topic, status).Inc()
}
