// Package logsetup configures the default slog logger. Import it for its
// side effects from main packages.
package logsetup

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel names the environment variable that selects the log level.
const EnvLogLevel = "LUTRONCTL_LOG_LEVEL"

func init() {
	Setup(os.Stderr, os.Getenv(EnvLogLevel))
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything
// else yields warn, which keeps the interactive prompt quiet.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Setup installs a text handler writing to w as the default logger. The
// standard log package is routed through it at info level, so log.Printf
// output is hidden unless the level is info or lower.
func Setup(w io.Writer, level string) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	slog.SetDefault(slog.New(handler))
}
