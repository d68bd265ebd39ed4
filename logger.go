package main

import (
    "fmt"
    "io"
    "log/slog"
    "os"
    "strings"
)

// Logger wraps slog.Logger.  It is safe for concurrent use.  When the
// configured output is a file, Close releases it.
type Logger struct {
    *slog.Logger
    closer io.Closer
}

// NewLogger builds a logger from the logging section of the config.  Output
// "stdout" and "stderr" select the standard streams; anything else is a file
// path opened in append mode and created if missing.
func NewLogger(cfg LoggingConfig) (*Logger, error) {
    var (
        out    io.Writer
        closer io.Closer
    )
    switch strings.ToLower(cfg.Output) {
    case "stdout":
        out = os.Stdout
    case "stderr", "":
        out = os.Stderr
    default:
        f, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
        if err != nil {
            return nil, fmt.Errorf("open log file: %w", err)
        }
        out, closer = f, f
    }
    l := newLoggerTo(out, cfg)
    l.closer = closer
    return l, nil
}

// newLoggerTo builds a logger that writes to w.  Tests use it with a buffer.
func newLoggerTo(w io.Writer, cfg LoggingConfig) *Logger {
    opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
    var handler slog.Handler
    switch strings.ToLower(cfg.Format) {
    case "json":
        handler = slog.NewJSONHandler(w, opts)
    default:
        handler = slog.NewTextHandler(w, opts)
    }
    handler = handler.WithAttrs([]slog.Attr{slog.String("service", "powerstrip")})
    return &Logger{Logger: slog.New(handler)}
}

// discardLogger drops everything.  Useful where a logger is required but
// nothing should be written.
func discardLogger() *Logger {
    return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// With returns a Logger carrying additional attributes.
func (l *Logger) With(args ...any) *Logger {
    return &Logger{Logger: l.Logger.With(args...), closer: l.closer}
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
    if l.closer == nil {
        return nil
    }
    return l.closer.Close()
}

// parseLevel converts a config level to slog.Level.  Unknown values map to
// info; validation rejects them before this is reached.
func parseLevel(level string) slog.Level {
    switch strings.ToLower(level) {
    case "debug":
        return slog.LevelDebug
    case "warn", "warning":
        return slog.LevelWarn
    case "error":
        return slog.LevelError
    default:
        return slog.LevelInfo
    }
}

// validLevel reports whether level is one parseLevel understands.
func validLevel(level string) bool {
    switch strings.ToLower(level) {
    case "debug", "info", "warn", "warning", "error", "":
        return true
    }
    return false
}
