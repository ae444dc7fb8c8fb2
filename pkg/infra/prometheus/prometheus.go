package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds
	latencyBuckets = []float64{
		5, 10, 25,
		50, 100, 250,
		500, 1000, 2500,
		5000, 10000, 30000,
	}

	HTTPRequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ragserver_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ragserver_http_latency_ms",
			Help:    "HTTP request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"method", "path"},
	)

	QueriesTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ragserver_queries_total",
			Help: "Total number of RAG queries processed",
		},
		[]string{"status"},
	)

	QueryLatency = promauto.With(registerer).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ragserver_query_latency_ms",
			Help:    "End-to-end query latency in milliseconds",
			Buckets: latencyBuckets,
		},
	)

	QueryCacheHits = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ragserver_query_cache_total",
			Help: "Query cache lookups by outcome",
		},
		[]string{"outcome"}, // hit or miss
	)

	DocumentsIngestedTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ragserver_documents_ingested_total",
			Help: "Total number of documents ingested by outcome",
		},
		[]string{"source", "status"}, // source is http or stream
	)

	ChunksIndexedTotal = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "ragserver_chunks_indexed_total",
			Help: "Total number of chunks written to the vector index",
		},
	)

	IngestionLatency = promauto.With(registerer).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ragserver_ingestion_latency_ms",
			Help:    "Document ingestion latency in milliseconds",
			Buckets: latencyBuckets,
		},
	)

	StreamEventsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ragserver_stream_events_total",
			Help: "Document lifecycle events consumed by topic and outcome",
		},
		[]string{"topic", "status"},
	)
)

func Initialize() {
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}
