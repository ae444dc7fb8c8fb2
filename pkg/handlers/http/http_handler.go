package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Query
	QueryHandler Handler

	// Documents
	UploadDocumentHandler    Handler
	BatchUploadHandler       Handler
	IngestDocumentHandler    Handler
	ListDocumentsHandler     Handler
	GetDocumentHandler       Handler
	DeleteDocumentHandler    Handler
	ReingestDocumentHandler  Handler
	UpdateDocMetadataHandler Handler

	// System
	HealthHandler      Handler
	StatsHandler       Handler
	ListFormatsHandler Handler
}
