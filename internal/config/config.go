package config

import (
	"encoding/json"
	"os"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	HTTPAddr          string    `json:"httpAddr"`
	DataDir           string    `json:"dataDir"`
	Fsync             string    `json:"fsync"` // always|interval|never
	FsyncIntervalMs   int       `json:"fsyncIntervalMs"`
	MaxSegmentBytes   int       `json:"maxSegmentBytes"`
	DefaultQueryLimit int       `json:"defaultQueryLimit"`
	IngestRatePerSec  float64   `json:"ingestRatePerSec"` // 0 disables the limiter
	IngestBurst       int       `json:"ingestBurst"`
	Log               LogConfig `json:"log"`
}

// LogConfig selects logging level and format.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		HTTPAddr:          ":6180",
		Fsync:             "always",
		FsyncIntervalMs:   5,
		MaxSegmentBytes:   4 << 20,
		DefaultQueryLimit: 1000,
		IngestBurst:       1024,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from a JSON file. If path is empty, returns
// defaults. Env overlays are applied separately via FromEnv.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
