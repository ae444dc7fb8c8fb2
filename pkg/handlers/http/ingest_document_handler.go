package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ragstack/ragserver/pkg/app/ingestion"
	domainStreaming "github.com/ragstack/ragserver/pkg/domain/streaming"
	"github.com/ragstack/ragserver/pkg/infra/streaming"
)

type ingestDocumentRequest struct {
	DocumentID string   `json:"document_id"`
	Filename   string   `json:"filename"`
	Content    string   `json:"content"`
	Title      string   `json:"title"`
	Author     string   `json:"author"`
	SourceURL  string   `json:"source_url"`
	Tags       []string `json:"tags"`
	Async      bool     `json:"async"`
}

// ingestDocumentHandler accepts document text directly as JSON, for callers
// that already hold the content in memory. With async set and streaming
// configured, the document is handed to the event stream instead of being
// processed inline; the consumer group picks it up.
type ingestDocumentHandler struct {
	logger    *logrus.Logger
	service   ingestion.Service
	publisher streaming.Publisher
}

func NewIngestDocumentHandler(logger *logrus.Logger, service ingestion.Service, publisher streaming.Publisher) Handler {
	return &ingestDocumentHandler{
		logger:    logger,
		service:   service,
		publisher: publisher,
	}
}

func (h *ingestDocumentHandler) Handle(c *fiber.Ctx) error {
	var req ingestDocumentRequest

	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("failed to bind ingest request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	filename := req.Filename
	if filename == "" {
		filename = "document.txt"
	}

	if req.Async && h.publisher != nil {
		return h.enqueue(c, req, filename)
	}

	doc, err := h.service.Ingest(c.Context(), ingestion.Input{
		DocumentID: req.DocumentID,
		Filename:   filename,
		Content:    []byte(req.Content),
		Title:      req.Title,
		Author:     req.Author,
		SourceURL:  req.SourceURL,
		Tags:       req.Tags,
		Source:     ingestion.SourceHTTP,
	})
	if err != nil {
		h.logger.WithError(err).Error("failed to ingest document")
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(doc)
}

func (h *ingestDocumentHandler) enqueue(c *fiber.Ctx, req ingestDocumentRequest, filename string) error {
	documentID := req.DocumentID
	topic := domainStreaming.TopicUpdates
	eventType := domainStreaming.EventDocumentUpdated
	if documentID == "" {
		documentID = uuid.NewString()
		topic = domainStreaming.TopicDocuments
		eventType = domainStreaming.EventDocumentCreated
	}

	metadata := map[string]interface{}{}
	if req.Title != "" {
		metadata["title"] = req.Title
	}
	if req.Author != "" {
		metadata["author"] = req.Author
	}
	if req.SourceURL != "" {
		metadata["source_url"] = req.SourceURL
	}
	if len(req.Tags) > 0 {
		metadata["tags"] = req.Tags
	}

	err := h.publisher.Publish(c.Context(), topic, domainStreaming.DocumentEvent{
		EventType:  eventType,
		DocumentID: documentID,
		Filename:   filename,
		Content:    req.Content,
		Metadata:   metadata,
	})
	if err != nil {
		h.logger.WithError(err).Error("failed to enqueue document event")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"document_id": documentID,
		"status":      "queued",
	})
}
