package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.HTTPAddr != ":6180" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.Fsync != "always" {
		t.Fatalf("Fsync = %q", cfg.Fsync)
	}
	if cfg.MaxSegmentBytes != 4<<20 {
		t.Fatalf("MaxSegmentBytes = %d", cfg.MaxSegmentBytes)
	}
	if cfg.DefaultQueryLimit != 1000 {
		t.Fatalf("DefaultQueryLimit = %d", cfg.DefaultQueryLimit)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"httpAddr": ":7000", "maxSegmentBytes": 1024, "log": {"level": "debug"}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":7000" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.MaxSegmentBytes != 1024 {
		t.Fatalf("MaxSegmentBytes = %d", cfg.MaxSegmentBytes)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("Log.Level = %q", cfg.Log.Level)
	}
	// untouched keys keep their defaults
	if cfg.Fsync != "always" {
		t.Fatalf("Fsync = %q", cfg.Fsync)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PATHIVU_HTTP_ADDR", ":9999")
	t.Setenv("PATHIVU_FSYNC", "interval")
	t.Setenv("PATHIVU_MAX_SEGMENT_BYTES", "2048")
	t.Setenv("PATHIVU_INGEST_RATE_PER_SEC", "12.5")
	t.Setenv("PATHIVU_LOG_FORMAT", "json")

	cfg := Default()
	FromEnv(&cfg)

	if cfg.HTTPAddr != ":9999" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.Fsync != "interval" {
		t.Fatalf("Fsync = %q", cfg.Fsync)
	}
	if cfg.MaxSegmentBytes != 2048 {
		t.Fatalf("MaxSegmentBytes = %d", cfg.MaxSegmentBytes)
	}
	if cfg.IngestRatePerSec != 12.5 {
		t.Fatalf("IngestRatePerSec = %v", cfg.IngestRatePerSec)
	}
	if cfg.Log.Format != "json" {
		t.Fatalf("Log.Format = %q", cfg.Log.Format)
	}
}

func TestFromEnvIgnoresBadNumbers(t *testing.T) {
	t.Setenv("PATHIVU_MAX_SEGMENT_BYTES", "not-a-number")
	cfg := Default()
	FromEnv(&cfg)
	if cfg.MaxSegmentBytes != Default().MaxSegmentBytes {
		t.Fatalf("MaxSegmentBytes = %d", cfg.MaxSegmentBytes)
	}
}
