package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Level represents the severity level of a log message.
type Level int

// Log levels
const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name (case-insensitive). Unknown names error.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

func (l Level) slog() slog.Level {
	switch l {
	case DebugLevel:
		return slog.LevelDebug
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Field is a single structured key/value pair.
type Field struct {
	key   string
	value any
}

// Str builds a string field.
func Str(key, value string) Field { return Field{key: key, value: value} }

// Int builds an int field.
func Int(key string, value int) Field { return Field{key: key, value: value} }

// Uint64 builds a uint64 field.
func Uint64(key string, value uint64) Field { return Field{key: key, value: value} }

// Dur builds a duration field.
func Dur(key string, value time.Duration) Field { return Field{key: key, value: value} }

// Err builds an error field.
func Err(err error) Field { return Field{key: "error", value: err} }

// Component tags logs with a component name.
func Component(name string) Field { return Field{key: "component", value: name} }

// Logger is Pathivu's structured logging facade. It is backed by log/slog so
// that output format and level handling stay consistent across the codebase.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a child logger carrying the extra fields.
	With(fields ...Field) Logger
	// WithComponent tags the logger with a component name.
	WithComponent(component string) Logger
}

// LoggerOption configures a logger built by NewLogger.
type LoggerOption func(*options)

type options struct {
	level  Level
	format string
	out    io.Writer
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) LoggerOption {
	return func(o *options) { o.level = level }
}

// WithFormat selects "text" or "json" output.
func WithFormat(format string) LoggerOption {
	return func(o *options) { o.format = format }
}

// WithOutput sets the output writer. Defaults to stderr.
func WithOutput(w io.Writer) LoggerOption {
	return func(o *options) { o.out = w }
}

type baseLogger struct {
	sl *slog.Logger
}

// NewLogger creates a new logger with the given options.
func NewLogger(opts ...LoggerOption) Logger {
	o := options{level: InfoLevel, format: "text", out: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}
	hopts := &slog.HandlerOptions{Level: o.level.slog()}
	var h slog.Handler
	if strings.EqualFold(o.format, "json") {
		h = slog.NewJSONHandler(o.out, hopts)
	} else {
		h = slog.NewTextHandler(o.out, hopts)
	}
	return &baseLogger{sl: slog.New(h)}
}

// NewNop returns a logger that discards everything. Useful in tests.
func NewNop() Logger {
	return NewLogger(WithLevel(ErrorLevel), WithOutput(io.Discard))
}

func attrs(fields []Field) []any {
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		out = append(out, slog.Any(f.key, f.value))
	}
	return out
}

func (l *baseLogger) Debug(msg string, fields ...Field) { l.sl.Debug(msg, attrs(fields)...) }
func (l *baseLogger) Info(msg string, fields ...Field)  { l.sl.Info(msg, attrs(fields)...) }
func (l *baseLogger) Warn(msg string, fields ...Field)  { l.sl.Warn(msg, attrs(fields)...) }
func (l *baseLogger) Error(msg string, fields ...Field) { l.sl.Error(msg, attrs(fields)...) }

func (l *baseLogger) With(fields ...Field) Logger {
	return &baseLogger{sl: l.sl.With(attrs(fields)...)}
}

func (l *baseLogger) WithComponent(component string) Logger {
	return l.With(Component(component))
}
