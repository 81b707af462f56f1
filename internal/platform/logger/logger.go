package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Log is the process-wide structured logger. It is usable before Init
// so packages and tests never see a nil logger.
var Log = slog.New(slog.NewJSONHandler(os.Stdout, nil))

type requestIDKey struct{}

// Init replaces Log with a JSON handler at the given level.
func Init(level string) {
	InitWriter(os.Stdout, level)
}

func InitWriter(w io.Writer, level string) {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	Log = slog.New(handler)
	slog.SetDefault(Log)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// WithRequestID stores the request id on ctx for FromContext.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request id from a standard context
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// FromContext returns Log annotated with the request id carried by ctx.
func FromContext(ctx context.Context) *slog.Logger {
	if rid := RequestID(ctx); rid != "" {
		return Log.With("request_id", rid)
	}
	return Log
}
