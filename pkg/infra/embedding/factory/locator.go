package factory

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"

	"github.com/ragstack/ragserver/pkg/config"
	domain "github.com/ragstack/ragserver/pkg/domain/embedding"
	infra "github.com/ragstack/ragserver/pkg/infra/embedding"
	"github.com/ragstack/ragserver/pkg/infra/embedding/local"
	"github.com/ragstack/ragserver/pkg/infra/embedding/openai"
)

const (
	OpenAIProvider = "openai"
	LocalProvider  = "local"
)

type EmbeddingServiceLocator struct {
	logger     *logrus.Logger
	httpClient *fasthttp.Client
}

func NewServiceLocator(logger *logrus.Logger, httpClient *fasthttp.Client) *EmbeddingServiceLocator {
	return &EmbeddingServiceLocator{
		logger:     logger,
		httpClient: httpClient,
	}
}

// GetService resolves the configured provider. An openai provider without an
// API key falls back to the local embedder rather than producing a service
// that fails every call.
func (l *EmbeddingServiceLocator) GetService(cfg config.EmbeddingConfig) (domain.Creator, error) {
	switch cfg.Provider {
	case OpenAIProvider:
		if cfg.APIKey == "" {
			l.logger.Warn("embeddings API key not provided, falling back to local embedder")
			return local.NewLocalEmbeddingService(cfg.Dimension), nil
		}
		svc := openai.NewOpenAIEmbeddingService(l.httpClient, l.logger, cfg.APIKey, cfg.Model, cfg.Dimension)
		return infra.WithCircuitBreaker("openai-embeddings", svc), nil
	case LocalProvider:
		return local.NewLocalEmbeddingService(cfg.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
