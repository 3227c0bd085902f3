// Package runtime wires Pathivu's storage, configuration, metrics, and
// ingest path into a single handle the servers and services build on.
package runtime
