package config

import (
	"os"
	"strconv"
)

// FromEnv overlays PATHIVU_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("PATHIVU_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("PATHIVU_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("PATHIVU_FSYNC"); v != "" {
		cfg.Fsync = v
	}
	if v := os.Getenv("PATHIVU_FSYNC_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FsyncIntervalMs = n
		}
	}
	if v := os.Getenv("PATHIVU_MAX_SEGMENT_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxSegmentBytes = n
		}
	}
	if v := os.Getenv("PATHIVU_DEFAULT_QUERY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DefaultQueryLimit = n
		}
	}
	if v := os.Getenv("PATHIVU_INGEST_RATE_PER_SEC"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.IngestRatePerSec = f
		}
	}
	if v := os.Getenv("PATHIVU_INGEST_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.IngestBurst = n
		}
	}
	if v := os.Getenv("PATHIVU_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PATHIVU_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}
