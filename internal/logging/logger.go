// Package logging provides structured logging configuration using log/slog.
//
// Logs go to stderr so command output on stdout stays clean. When a Seq URL
// is configured every record is also shipped to Seq. Each group load gets a
// load_id that [FromContext] attaches to every entry written during it.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	slogseq "github.com/sokkalf/slog-seq"
)

// Setup configures the global slog logger and returns a function that
// flushes any buffered remote entries.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func Setup(level, format, seqURL string) func() {
	return setup(os.Stderr, level, format, seqURL)
}

func setup(w io.Writer, level, format, seqURL string) func() {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	closeFn := func() {}
	if seqURL != "" {
		_, seqHandler := slogseq.NewLogger(
			seqURL,
			slogseq.WithBatchSize(50),
			slogseq.WithFlushInterval(2*time.Second),
			slogseq.WithHandlerOptions(opts),
		)
		if seqHandler != nil {
			handler = &multiHandler{handlers: []slog.Handler{handler, seqHandler}}
			closeFn = func() { seqHandler.Close() }
		}
	}

	slog.SetDefault(slog.New(handler))
	return closeFn
}

// parseLevel converts a string log level to slog.Level.
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

type ctxKey struct{}

// WithLoadID returns a context carrying the id of the current group load.
func WithLoadID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// LoadID returns the load id stored in ctx, if any.
func LoadID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// FromContext returns the default logger, tagged with load_id when the
// context carries one.
//
// Usage:
//
//	ctx = logging.WithLoadID(ctx, uuid.NewString())
//	logger := logging.FromContext(ctx)
//	logger.Info("reading file", "path", path)
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if id := LoadID(ctx); id != "" {
		logger = logger.With("load_id", id)
	}
	return logger
}

// WithFields returns a logger with additional structured fields.
//
// Usage:
//
//	logger := logging.WithFields(ctx, "group", name)
//	logger.Info("load started")
//	// ... later ...
//	logger.Info("load completed", "rows", t.Len())
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
