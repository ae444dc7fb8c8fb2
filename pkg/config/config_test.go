package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetDefaultValues(t *testing.T) {
	globalConfig = Config{}
	setDefaultValues()

	cfg := GetConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 9090, cfg.Server.MetricsPort)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, "rag-document-processor", cfg.Kafka.GroupID)
	assert.Equal(t, "rag-documents", cfg.Storage.Bucket)
	assert.Equal(t, "local", cfg.Embedding.Provider)
	assert.Equal(t, 1536, cfg.Embedding.Dimension)
	assert.Equal(t, 1000, cfg.Processing.ChunkSize)
	assert.Equal(t, 200, cfg.Processing.ChunkOverlap)
	assert.Equal(t, 50, cfg.Processing.MaxFileSizeMB)
	assert.Equal(t, 5, cfg.Query.MaxResults)
	assert.InDelta(t, 0.7, cfg.Query.SimilarityThreshold, 1e-9)
	assert.Equal(t, 3600, cfg.Query.CacheTTLSeconds)
}

func TestSetDefaultValues_PreservesExplicitConfig(t *testing.T) {
	globalConfig = Config{}
	globalConfig.Server.Port = 9000
	globalConfig.Query.SimilarityThreshold = 0.5

	setDefaultValues()

	assert.Equal(t, 9000, GetConfig().Server.Port)
	assert.InDelta(t, 0.5, GetConfig().Query.SimilarityThreshold, 1e-9)
}
