// Package config loads Pathivu's declarative configuration from a JSON file
// with PATHIVU_* environment overlays, and resolves OS-specific default data
// directories.
package config
