package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/ragstack/ragserver/pkg/config"
	handlers "github.com/ragstack/ragserver/pkg/handlers/http"
	"github.com/ragstack/ragserver/pkg/middleware"
)

type (
	APIServerDI struct {
		MiddlewareTransport middleware.Transport
		HandlerTransport    handlers.HandlerTransport
		Config              *config.Config
		Logger              *logrus.Logger
	}
	APIServer struct {
		*BaseServer
		middlewareTransport middleware.Transport
		handlerTransport    handlers.HandlerTransport
		routesReady         bool
	}
)

func NewAPIServer(di APIServerDI) *APIServer {
	return &APIServer{
		BaseServer:          NewBaseServer(di.Config, di.Logger),
		middlewareTransport: di.MiddlewareTransport,
		handlerTransport:    di.HandlerTransport,
	}
}

func (s *APIServer) Run() error {
	s.setupRoutes()
	s.setupMetricsEndpoint()

	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("Starting API server")
	return s.Router.Listen(addr)
}

func (s *APIServer) setupRoutes() {
	if s.routesReady {
		return
	}
	s.routesReady = true

	s.Router.Use(s.middlewareTransport.RecoverMiddleware.Middleware())
	s.Router.Use(s.middlewareTransport.LoggingMiddleware.Middleware())
	s.Router.Use(s.middlewareTransport.MetricsMiddleware.Middleware())

	s.Router.Get("/health", s.handlerTransport.HealthHandler.Handle)

	v1 := s.Router.Group("/api/v1")
	{
		v1.Post("/query", s.handlerTransport.QueryHandler.Handle)

		documents := v1.Group("/documents")
		{
			documents.Post("/upload", s.handlerTransport.UploadDocumentHandler.Handle)
			documents.Post("/batch-upload", s.handlerTransport.BatchUploadHandler.Handle)
			documents.Post("", s.handlerTransport.IngestDocumentHandler.Handle)
			documents.Get("", s.handlerTransport.ListDocumentsHandler.Handle)
			documents.Get("/formats", s.handlerTransport.ListFormatsHandler.Handle)
			documents.Get("/:document_id", s.handlerTransport.GetDocumentHandler.Handle)
			documents.Delete("/:document_id", s.handlerTransport.DeleteDocumentHandler.Handle)
			documents.Post("/:document_id/reingest", s.handlerTransport.ReingestDocumentHandler.Handle)
			documents.Patch("/:document_id/metadata", s.handlerTransport.UpdateDocMetadataHandler.Handle)
		}

		v1.Get("/stats", s.handlerTransport.StatsHandler.Handle)
	}
}

// Routes exposes the configured fiber app for tests.
func (s *APIServer) Routes() *fiber.App {
	s.setupRoutes()
	return s.Router
}

func (s *APIServer) Shutdown() error {
	return s.Router.Shutdown()
}
