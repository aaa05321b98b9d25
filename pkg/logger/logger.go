// Package logger holds crabdb's process-wide structured logger: a single
// slog.Logger initialized once at startup and treated as read-only
// afterward, kept out of hot paths via slog's own level gating.
package logger

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
)

// Log is the process-wide logger. It is nil until Init is called.
var Log *slog.Logger

// Init initializes Log from CRABDB_LOG_LEVEL and CRABDB_LOG_SINK (either
// unset for stdout, or "file:<path>"), falling back to stdout if the
// sink can't be opened. level, if non-empty, overrides CRABDB_LOG_LEVEL —
// internal/app passes the effective config's LogLevel here so a CLI flag
// or config file setting wins over the env var.
func Init(level string) {
	if level == "" {
		level = os.Getenv("CRABDB_LOG_LEVEL")
	}
	lvl := parseLevel(level)

	sink := os.Getenv("CRABDB_LOG_SINK")
	if strings.HasPrefix(sink, "file:") {
		path := strings.TrimPrefix(sink, "file:")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
		if err == nil {
			Log = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl}))
			return
		}
		fmt.Fprintf(os.Stderr, "logger: failed to open log sink %s: %v\n", path, err)
	}
	Log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// Debug logs with slog-style key/value pairs against Log.
func Debug(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Debug(msg, args...)
}

// Info logs with slog-style key/value pairs against Log.
func Info(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Info(msg, args...)
}

// Warn logs with slog-style key/value pairs against Log.
func Warn(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Warn(msg, args...)
}

// Error logs with slog-style key/value pairs against Log.
func Error(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Error(msg, args...)
}

// LogRequest logs a concise summary of a request against the admin HTTP
// surface. The surface has no auth headers to redact — it's
// health/metrics/debug-vars only — so this logs method, path, and
// remote address directly.
func LogRequest(r *http.Request) {
	Info("admin_request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
}
