// Package serverrun starts and supervises the Pathivu server process: it
// opens the runtime, serves the HTTP API, and shuts down cleanly on signals.
package serverrun
