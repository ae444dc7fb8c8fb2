package common

// ChunkIndexName is the RediSearch index that backs passage similarity search.
const ChunkIndexName = "rag-chunks"

// CacheConfig carries the Redis connection settings shared by the cache and the
// vector repository.
type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TLS      bool
}
