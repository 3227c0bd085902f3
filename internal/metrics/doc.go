// Package metrics defines Pathivu's Prometheus collectors for the query and
// ingest paths, and implements the storage layer's MetricsHook so Pebble
// latencies land in the same registry.
package metrics
