package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"

	"github.com/ragstack/ragserver/pkg/app/chunker"
	"github.com/ragstack/ragserver/pkg/app/ingestion"
	"github.com/ragstack/ragserver/pkg/app/query"
	"github.com/ragstack/ragserver/pkg/app/system"
	"github.com/ragstack/ragserver/pkg/cache"
	"github.com/ragstack/ragserver/pkg/common"
	"github.com/ragstack/ragserver/pkg/config"
	handlers "github.com/ragstack/ragserver/pkg/handlers/http"
	"github.com/ragstack/ragserver/pkg/infra/database"
	"github.com/ragstack/ragserver/pkg/infra/embedding/factory"
	infraLogger "github.com/ragstack/ragserver/pkg/infra/logger"
	"github.com/ragstack/ragserver/pkg/infra/prometheus"
	"github.com/ragstack/ragserver/pkg/infra/repository"
	infraStorage "github.com/ragstack/ragserver/pkg/infra/storage"
	"github.com/ragstack/ragserver/pkg/infra/streaming"
	"github.com/ragstack/ragserver/pkg/middleware"
	"github.com/ragstack/ragserver/pkg/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger()

	if err := config.Load("./config"); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	prometheus.Initialize()

	db, err := database.NewDB(logger, &database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	cacheInstance, err := cache.NewCache(common.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize cache: %v", err)
	}
	defer cacheInstance.Close()

	lake, err := infraStorage.NewMinIODataLake(cfg.Storage)
	if err != nil {
		logger.Fatalf("Failed to initialize data lake: %v", err)
	}

	httpClient := &fasthttp.Client{}
	embedder, err := factory.NewServiceLocator(logger, httpClient).GetService(cfg.Embedding)
	if err != nil {
		logger.Fatalf("Failed to initialize embedding service: %v", err)
	}

	vectorRepo := repository.NewRedisVectorRepository(
		cacheInstance.Client(),
		logger,
		common.ChunkIndexName,
		cfg.Embedding.Dimension,
	)
	if err := vectorRepo.EnsureIndex(ctx); err != nil {
		logger.Fatalf("Failed to ensure vector index: %v", err)
	}

	documentRepo := repository.NewDocumentRepository(db.DB)

	ingestionService := ingestion.NewService(
		documentRepo,
		vectorRepo,
		embedder,
		chunker.NewChunker(cfg.Processing.ChunkSize, cfg.Processing.ChunkOverlap),
		lake,
		cacheInstance,
		logger,
		cfg.Processing,
		cfg.Embedding,
	)

	queryService := query.NewService(embedder, vectorRepo, cacheInstance, logger, cfg.Query)

	var publisher streaming.Publisher
	if cfg.Kafka.Enabled {
		publisher, err = streaming.NewKafkaPublisher(cfg.Kafka, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize kafka publisher: %v", err)
		}
		defer publisher.Close()

		consumer, err := streaming.NewKafkaConsumer(
			cfg.Kafka,
			ingestion.NewEventHandler(ingestionService, logger),
			logger,
		)
		if err != nil {
			logger.Fatalf("Failed to initialize kafka consumer: %v", err)
		}
		go func() {
			if err := consumer.Run(ctx); err != nil {
				logger.WithError(err).Error("document event consumer stopped")
			}
		}()
	}

	handlerTransport := handlers.HandlerTransport{
		QueryHandler:             handlers.NewQueryHandler(logger, queryService),
		UploadDocumentHandler:    handlers.NewUploadDocumentHandler(logger, ingestionService),
		BatchUploadHandler:       handlers.NewBatchUploadDocumentsHandler(logger, ingestionService),
		IngestDocumentHandler:    handlers.NewIngestDocumentHandler(logger, ingestionService, publisher),
		ListDocumentsHandler:     handlers.NewListDocumentsHandler(logger, documentRepo),
		GetDocumentHandler:       handlers.NewGetDocumentHandler(logger, documentRepo),
		DeleteDocumentHandler:    handlers.NewDeleteDocumentHandler(logger, ingestionService),
		ReingestDocumentHandler:  handlers.NewReingestDocumentHandler(logger, ingestionService),
		UpdateDocMetadataHandler: handlers.NewUpdateDocumentMetadataHandler(logger, ingestionService),
		HealthHandler:            handlers.NewHealthHandler(system.NewHealthChecker(db, cacheInstance, lake, logger)),
		StatsHandler:             handlers.NewStatsHandler(logger, system.NewStatsProvider(documentRepo, vectorRepo, lake, logger)),
		ListFormatsHandler:       handlers.NewListFormatsHandler(),
	}

	middlewareTransport := middleware.Transport{
		RecoverMiddleware: middleware.NewPanicRecoverMiddleware(logger),
		LoggingMiddleware: middleware.NewRequestLoggerMiddleware(logger),
		MetricsMiddleware: middleware.NewMetricsMiddleware(),
	}

	apiServer := server.NewAPIServer(server.APIServerDI{
		MiddlewareTransport: middlewareTransport,
		HandlerTransport:    handlerTransport,
		Config:              cfg,
		Logger:              logger,
	})

	go func() {
		if err := apiServer.Run(); err != nil {
			logger.WithError(err).Fatal("API server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	cancel()
	if err := apiServer.Shutdown(); err != nil {
		logger.WithError(err).Error("error during server shutdown")
	}
}
