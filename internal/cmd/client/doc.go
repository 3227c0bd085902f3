// Package clientcmd holds the CLI subcommands that talk to a running Pathivu
// server over its HTTP API.
package clientcmd
