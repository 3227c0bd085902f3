package config

import (
	"os"
	"path/filepath"
)

// DefaultDataDir returns the default data directory based on the host OS.
// It prefers standard locations when available and falls back to a dotdir
// in the user's home directory.
func DefaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return "./data"
	}

	// XDG (Linux) override
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "pathivu")
	}

	// Common Linux/Unix system dir
	if isDir("/var/lib") {
		return "/var/lib/pathivu"
	}

	// macOS: ~/Library/Application Support/Pathivu
	if isDir(filepath.Join(homeDir, "Library")) {
		return filepath.Join(homeDir, "Library", "Application Support", "Pathivu")
	}

	// Windows: %USERPROFILE%/AppData/Local/Pathivu
	if isDir(filepath.Join(homeDir, "AppData")) {
		return filepath.Join(homeDir, "AppData", "Local", "Pathivu")
	}

	// Fallback: ~/.pathivu
	return filepath.Join(homeDir, ".pathivu")
}

// SegmentsDir returns the directory holding a partition's segment and term
// index files.
func SegmentsDir(dataDir, partition string) string {
	return filepath.Join(dataDir, "segments", partition)
}

// StoreDir returns the Pebble database directory.
func StoreDir(dataDir string) string {
	return filepath.Join(dataDir, "store")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
