// Package log provides Pathivu's structured logging facade.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// simple Field type for structured context. It is backed by the standard
// library slog handlers (text or JSON), so behavior and output stay
// consistent across the codebase while code remains against this facade.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormat("text"),
//	)
//	l = l.With(log.Component("query"), log.Str("partition", "default"))
//	l.Info("search complete", log.Int("matches", 42))
package log
