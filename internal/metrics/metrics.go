package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Pathivu's Prometheus collectors. Each Metrics owns a private
// registry so multiple runtimes (and tests) never collide; Handler exposes it
// for scraping.
type Metrics struct {
	registry *prometheus.Registry

	QueriesTotal         *prometheus.CounterVec
	QueryErrorsTotal     *prometheus.CounterVec
	QueryDuration        prometheus.Histogram
	QueryEntriesReturned prometheus.Histogram
	SegmentsScanned      prometheus.Counter

	IngestEntriesTotal *prometheus.CounterVec
	IngestBytesTotal   prometheus.Counter
	SegmentsSealed     prometheus.Counter

	storageReadSeconds   prometheus.Histogram
	storageWriteSeconds  prometheus.Histogram
	storageCommitSeconds prometheus.Histogram
}

// New creates a Metrics with its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		QueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pathivu_queries_total",
			Help: "Searches executed, by partition.",
		}, []string{"partition"}),
		QueryErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pathivu_query_errors_total",
			Help: "Searches that failed, by partition.",
		}, []string{"partition"}),
		QueryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pathivu_query_duration_seconds",
			Help:    "End-to-end search latency.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 16),
		}),
		QueryEntriesReturned: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pathivu_query_entries_returned",
			Help:    "Entries returned per search.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		SegmentsScanned: factory.NewCounter(prometheus.CounterOpts{
			Name: "pathivu_segments_scanned_total",
			Help: "Sealed segments visited by searches.",
		}),

		IngestEntriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pathivu_ingest_entries_total",
			Help: "Log entries appended, by partition.",
		}, []string{"partition"}),
		IngestBytesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "pathivu_ingest_bytes_total",
			Help: "Log line bytes appended.",
		}),
		SegmentsSealed: factory.NewCounter(prometheus.CounterOpts{
			Name: "pathivu_segments_sealed_total",
			Help: "Segments sealed to disk.",
		}),

		storageReadSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pathivu_storage_read_seconds",
			Help:    "Key-value store read latency.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		storageWriteSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pathivu_storage_write_seconds",
			Help:    "Key-value store write latency.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		storageCommitSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pathivu_storage_batch_commit_seconds",
			Help:    "Key-value store batch commit latency.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}
}

// Handler serves this Metrics' registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRead implements the storage MetricsHook.
func (m *Metrics) ObserveRead(elapsed time.Duration, bytes int) {
	m.storageReadSeconds.Observe(elapsed.Seconds())
}

// ObserveWrite implements the storage MetricsHook.
func (m *Metrics) ObserveWrite(elapsed time.Duration, bytes int) {
	m.storageWriteSeconds.Observe(elapsed.Seconds())
}

// ObserveBatchCommit implements the storage MetricsHook.
func (m *Metrics) ObserveBatchCommit(elapsed time.Duration, numOps int, bytes int) {
	m.storageCommitSeconds.Observe(elapsed.Seconds())
}
