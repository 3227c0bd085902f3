// Package httpserver exposes Pathivu's ingest and query operations over a
// small JSON/HTTP API:
//
//	POST /v1/logs     append lines to a partition (rate limited)
//	POST /v1/flush    seal the partition's open segment
//	GET  /v1/query    search sealed segments (q, start, end, filter, limit)
//	GET  /v1/healthz  storage health
//	GET  /metrics     Prometheus exposition
package httpserver
